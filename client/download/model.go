package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrContentLengthMismatch = errors.New("content length mismatch")
	ErrChecksumMismatch      = errors.New("checksum mismatch")
	ErrCancelled             = errors.New("download cancelled")
	ErrGroupShutdown         = errors.New("download group shut down")
)

type Error struct {
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WorkFunc is the signature for async work.
type WorkFunc func(ctx context.Context) error

// Adder matches the signature of the client's DownloadAsync method,
// so a [Result] can enqueue further downloads into its own group.
type Adder func(*http.Request, int, string, ...Option) (*Result, error)
