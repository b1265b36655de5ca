package client

import "encoding/base64"

// CredentialKind names the authorization scheme a [Credential] carries.
type CredentialKind string

const (
	CredentialBearer CredentialKind = "bearer"
	CredentialBasic  CredentialKind = "basic"
	CredentialAPIKey CredentialKind = "apikey"
)

// Credential is the authorization material stamped on every request the
// client sends. A client holds at most one; configuring another replaces it.
type Credential struct {
	Kind     CredentialKind `json:"kind" validate:"required,oneof=bearer basic apikey"`
	Token    string         `json:"-" validate:"required_if=Kind bearer"`
	Username string         `json:"username,omitempty" validate:"required_if=Kind basic"`
	Password string         `json:"-"`
	Key      string         `json:"-" validate:"required_if=Kind apikey"`
	Header   string         `json:"header,omitempty"`
}

// header resolves the header name and value the credential translates to.
func (cr *Credential) header() (name, value string) {
	switch cr.Kind {
	case CredentialBearer:
		return "Authorization", "Bearer " + cr.Token

	case CredentialBasic:
		encoded := base64.StdEncoding.EncodeToString([]byte(cr.Username + ":" + cr.Password))
		return "Authorization", "Basic " + encoded

	case CredentialAPIKey:
		header := cr.Header
		if header == "" {
			header = defaultAPIKeyHeader
		}
		return header, cr.Key
	}

	return "", ""
}
