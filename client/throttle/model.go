package throttle

import (
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

var (
	ErrMustNotBeZero = errors.New("must be greater than zero")
	ErrWaitingFailed = errors.New("limiter waiting failed")
	ErrContextEnded  = errors.New("throttle context ended")
)

// Config carries the requests-per-second ceiling and burst
// capacity applied to a client's outbound calls.
type Config struct {
	RPS   int
	Burst int
}

// throttle is an http.RoundTripper that restricts outbound
// calls with a time/rate token bucket.
type throttle struct {
	limiter *rate.Limiter
	rps     int
	burst   int
	next    http.RoundTripper
	logFn   func() *slog.Logger
}
