package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")

	// ErrAuthFailure is joined with [ErrUnexpectedStatusCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")

	// ErrInvalidArgument flags option or request values rejected before
	// any network activity takes place.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingBaseAddress is returned by [Build] when no base address
	// was configured.
	ErrMissingBaseAddress = errors.New("base address not configured")

	// ErrResponseTooLarge is the sentinel error wrapped by [ResponseSizeError].
	ErrResponseTooLarge = errors.New("response exceeds configured size limit")
)

// UnexpectedStatusError is returned when the HTTP response status code
// does not match the expected value.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

// ResponseSizeError reports a response body crossing the client's
// configured maximum. Size is the Content-Length when the server
// declared one, or the byte count read when the cap tripped.
type ResponseSizeError struct {
	Limit int64
	Size  int64
	Err   error
}

func (e *ResponseSizeError) Error() string {
	return fmt.Sprintf("%v: limit %d bytes, size %d bytes", e.Err, e.Limit, e.Size)
}

func (e *ResponseSizeError) Unwrap() error {
	return e.Err
}
