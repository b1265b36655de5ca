package client

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)

	return ua.base.RoundTrip(cpy)
}

// defaultHeaders stamps the client's configured headers, accept list, and
// credential on requests that don't already carry them. Per-request
// values always win over the configured defaults.
type defaultHeaders struct {
	headers []headerValue
	base    http.RoundTripper
}

func (dh defaultHeaders) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	for _, h := range dh.headers {
		if cpy.Header.Get(h.name) == "" {
			cpy.Header.Set(h.name, h.value)
		}
	}

	return dh.base.RoundTrip(cpy)
}

// requestID stamps a fresh UUID on each outgoing request unless the
// caller set one.
type requestID struct {
	base http.RoundTripper
}

func (rid requestID) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	if cpy.Header.Get(requestIDHeader) == "" {
		cpy.Header.Set(requestIDHeader, uuid.NewString())
	}

	return rid.base.RoundTrip(cpy)
}

// tracing opens a client span around the round trip and propagates the
// trace context on the wire.
type tracing struct {
	tracer trace.Tracer
	base   http.RoundTripper
}

func (tr tracing) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx, span := tr.tracer.Start(r.Context(), fmt.Sprintf("HTTP %s", r.Method),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.url", r.URL.String()),
		),
	)
	defer span.End()

	cpy := r.Clone(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(cpy.Header))

	resp, err := tr.base.RoundTrip(cpy)
	if err != nil {
		span.RecordError(err)
		return resp, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	return resp, nil
}
