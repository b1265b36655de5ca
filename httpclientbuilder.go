// Package httpclientbuilder exposes the client builder.
package httpclientbuilder

import (
	"github.com/SARL-TKHA/HttpClientBuilder/client"
)

// New builds a *client.Client from the provided options. A base address
// is required; see the client package for the full option set.
func New(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}
