package client

import (
	"net/http"
	"time"
)

// maxErrBodySize caps the amount of response body read when
// building an error for an unexpected status code. This prevents
// unbounded memory usage when a large response arrives with a
// wrong status.
const maxErrBodySize = 4 << 10 // 4KB

// maxDrainSize caps how much of an unread body gets drained for
// connection reuse before closing.
const maxDrainSize = 64 << 10 // 64KB

// Size units for [WithMaxResponseSize].
const (
	KB int64 = 1 << (10 * (iota + 1))
	MB
	GB
)

// Defaults applied by [Build] when the options leave them unset.
const (
	DefaultTimeout         = 30 * time.Second
	DefaultMaxResponseSize = 10 * MB
)

// Content types for [WithAccept] and [WithContentType].
const (
	ContentTypeJSON = "application/json"
	ContentTypeXML  = "application/xml"
	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypeText = "text/plain"
)

// defaultAPIKeyHeader carries API-key credentials unless overridden
// via [WithAPIKeyHeader].
const defaultAPIKeyHeader = "x-api-key"

// requestIDHeader is stamped on outbound requests when [WithRequestID]
// is enabled.
const requestIDHeader = "X-Request-Id"

// execFn represents a func to operate on a response.
type execFn func(response *http.Response) error
