package download

import (
	"context"
	"io"
)

// contextReader aborts an in-flight copy as soon as ctx ends, without
// waiting for the next network read to fail.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	return cr.r.Read(p)
}
