package client

import "io"

// cappedBody fails reads with a [ResponseSizeError] once more than limit
// bytes have flowed through. A body exactly at the limit passes.
type cappedBody struct {
	rc    io.ReadCloser
	limit int64
	read  int64
}

func newCappedBody(rc io.ReadCloser, limit int64) *cappedBody {
	return &cappedBody{rc: rc, limit: limit}
}

func (cb *cappedBody) Read(p []byte) (int, error) {
	n, err := cb.rc.Read(p)
	cb.read += int64(n)

	if cb.read > cb.limit {
		return n, &ResponseSizeError{
			Limit: cb.limit,
			Size:  cb.read,
			Err:   ErrResponseTooLarge,
		}
	}

	return n, err
}

func (cb *cappedBody) Close() error {
	return cb.rc.Close()
}
