package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/SARL-TKHA/HttpClientBuilder/client"
	"github.com/SARL-TKHA/HttpClientBuilder/client/download"
)

// Service bundles one-call GET operations over a configured
// [client.Client]. All fetches expect a 200 OK and run under the
// client's base address, default headers, and response size cap.
type Service struct {
	c *client.Client
}

// New wraps c.
func New(c *client.Client) (*Service, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: client must not be nil", client.ErrInvalidArgument)
	}

	return &Service{c: c}, nil
}

// Text fetches uri and returns the response body as a string.
func (s *Service) Text(ctx context.Context, uri string) (string, error) {
	b, err := s.Bytes(ctx, uri)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// Bytes fetches uri and returns the full response body. Bodies over the
// client's cap fail with [client.ErrResponseTooLarge].
func (s *Service) Bytes(ctx context.Context, uri string) ([]byte, error) {
	stream, err := s.Stream(ctx, uri)
	if err != nil {
		return nil, err
	}

	b, err := io.ReadAll(stream)
	cerr := stream.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if cerr != nil {
		return nil, fmt.Errorf("closing response body: %w", cerr)
	}

	return b, nil
}

// Stream fetches uri and hands the raw body back for incremental
// consumption. The caller owns the returned ReadCloser and must close
// it; reading past the client's cap fails with
// [client.ErrResponseTooLarge].
func (s *Service) Stream(ctx context.Context, uri string) (io.ReadCloser, error) {
	req, err := s.request(ctx, uri)
	if err != nil {
		return nil, err
	}

	return s.c.Stream(req, http.StatusOK)
}

// Download fetches uri and streams the body to destPath, blocking until
// the file is in place.
func (s *Service) Download(ctx context.Context, uri, destPath string, opts ...download.Option) error {
	req, err := s.request(ctx, uri)
	if err != nil {
		return err
	}

	return s.c.Download(req, http.StatusOK, destPath, opts...)
}

// DownloadAsync runs Download on a worker goroutine and returns a
// handle for awaiting or cancelling it.
func (s *Service) DownloadAsync(ctx context.Context, uri, destPath string, opts ...download.Option) (*download.Result, error) {
	req, err := s.request(ctx, uri)
	if err != nil {
		return nil, err
	}

	return s.c.DownloadAsync(req, http.StatusOK, destPath, opts...)
}

func (s *Service) request(ctx context.Context, uri string) (*http.Request, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, fmt.Errorf("%w: uri must not be empty", client.ErrInvalidArgument)
	}

	return s.c.NewRequest(ctx, http.MethodGet, uri)
}
