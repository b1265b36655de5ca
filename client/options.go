package client

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/SARL-TKHA/HttpClientBuilder/client/throttle"
	"github.com/SARL-TKHA/HttpClientBuilder/client/tlspin"
)

// Option is a functional option for configuring a [Client] via [Build].
type Option func(*options) error

type headerValue struct {
	name  string
	value string
}

type queryParam struct {
	name  string
	value string
}

type options struct {
	baseAddress string
	headers     []headerValue
	accept      []string
	credential  *Credential
	timeout     *time.Duration
	maxRespSize *int64
	queryParams []queryParam
	clientCerts []tls.Certificate
	trustedRoot *x509.Certificate
	jar         http.CookieJar

	client            *http.Client
	rt                http.RoundTripper
	userAgent         string
	throttle          *throttle.Config
	noFollowRedirects bool
	logger            *slog.Logger
	tracer            trace.Tracer
	requestID         bool
}

// WithBaseAddress sets the address every relative request URI resolves
// against. [Build] fails without one.
func WithBaseAddress(addr string) Option {
	return func(c *options) error {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("%w: base address must not be empty", ErrInvalidArgument)
		}
		c.baseAddress = addr
		return nil
	}
}

// WithHeader registers a default header stamped on every outgoing
// request. Registering the same header twice is rejected; per-request
// headers win over these defaults.
func WithHeader(name, value string) Option {
	return func(c *options) error {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: header name must not be empty", ErrInvalidArgument)
		}
		for _, h := range c.headers {
			if http.CanonicalHeaderKey(h.name) == http.CanonicalHeaderKey(name) {
				return fmt.Errorf("%w: header %q already registered", ErrInvalidArgument, name)
			}
		}
		c.headers = append(c.headers, headerValue{name: name, value: value})
		return nil
	}
}

// WithHeaders registers every entry of headers as a default header, in
// sorted key order.
func WithHeaders(headers map[string]string) Option {
	return func(c *options) error {
		names := make([]string, 0, len(headers))
		for name := range headers {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			if err := WithHeader(name, headers[name])(c); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithAccept appends content types to the Accept header sent with every
// request. Call order is preserved on the wire.
func WithAccept(contentTypes ...string) Option {
	return func(c *options) error {
		if len(contentTypes) == 0 {
			return fmt.Errorf("%w: at least one accept content type required", ErrInvalidArgument)
		}
		for _, ct := range contentTypes {
			if strings.TrimSpace(ct) == "" {
				return fmt.Errorf("%w: accept content type must not be empty", ErrInvalidArgument)
			}
			c.accept = append(c.accept, ct)
		}
		return nil
	}
}

// WithBearerToken authorizes every request with an OAuth2-style bearer
// token. Credentials replace one another; the last one configured wins.
func WithBearerToken(token string) Option {
	return func(c *options) error {
		if strings.TrimSpace(token) == "" {
			return fmt.Errorf("%w: bearer token must not be empty", ErrInvalidArgument)
		}
		c.credential = &Credential{Kind: CredentialBearer, Token: token}
		return nil
	}
}

// WithBasicAuth authorizes every request with RFC 7617 basic credentials.
func WithBasicAuth(username, password string) Option {
	return func(c *options) error {
		if strings.TrimSpace(username) == "" {
			return fmt.Errorf("%w: username must not be empty", ErrInvalidArgument)
		}
		c.credential = &Credential{Kind: CredentialBasic, Username: username, Password: password}
		return nil
	}
}

// WithAPIKey authorizes every request with an API key sent in the
// x-api-key header.
func WithAPIKey(key string) Option {
	return WithAPIKeyHeader(key, defaultAPIKeyHeader)
}

// WithAPIKeyHeader authorizes every request with an API key sent under
// a custom header name.
func WithAPIKeyHeader(key, header string) Option {
	return func(c *options) error {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("%w: api key must not be empty", ErrInvalidArgument)
		}
		if strings.TrimSpace(header) == "" {
			return fmt.Errorf("%w: api key header must not be empty", ErrInvalidArgument)
		}
		c.credential = &Credential{Kind: CredentialAPIKey, Key: key, Header: header}
		return nil
	}
}

// WithTimeout bounds each request round trip, body read included.
// Zero disables the timeout entirely; left unset, [Build] applies
// [DefaultTimeout].
func WithTimeout(d time.Duration) Option {
	return func(c *options) error {
		if d < 0 {
			return fmt.Errorf("%w: timeout must not be negative", ErrInvalidArgument)
		}
		c.timeout = &d
		return nil
	}
}

// WithMaxResponseSize caps how many response body bytes the client hands
// a caller before failing with [ErrResponseTooLarge]. Left unset, [Build]
// applies [DefaultMaxResponseSize].
func WithMaxResponseSize(n int64) Option {
	return func(c *options) error {
		if n <= 0 {
			return fmt.Errorf("%w: max response size must be positive", ErrInvalidArgument)
		}
		c.maxRespSize = &n
		return nil
	}
}

// WithQueryParam appends a query parameter to the base address. Names
// and values are percent-encoded, a space becoming %20. Parameters apply
// at [Build] time, so ordering relative to [WithBaseAddress] is irrelevant.
func WithQueryParam(name, value string) Option {
	return func(c *options) error {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: query parameter name must not be empty", ErrInvalidArgument)
		}
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: query parameter %q value must not be empty", ErrInvalidArgument, name)
		}
		c.queryParams = append(c.queryParams, queryParam{name: name, value: value})
		return nil
	}
}

// WithQueryParams appends every entry of params to the base address, in
// sorted key order.
func WithQueryParams(params map[string]string) Option {
	return func(c *options) error {
		if len(params) == 0 {
			return fmt.Errorf("%w: query parameter batch must not be empty", ErrInvalidArgument)
		}
		names := make([]string, 0, len(params))
		for name := range params {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			if err := WithQueryParam(name, params[name])(c); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithClientCertificate presents cert to servers during the TLS
// handshake for mutual TLS.
func WithClientCertificate(cert tls.Certificate) Option {
	return func(c *options) error {
		if len(cert.Certificate) == 0 {
			return fmt.Errorf("%w: client certificate is empty", ErrInvalidArgument)
		}
		c.clientCerts = append(c.clientCerts, cert)
		return nil
	}
}

// WithClientCertificateFromFiles loads a PEM certificate/key pair and
// presents it for mutual TLS.
func WithClientCertificateFromFiles(certPath, keyPath string) Option {
	return func(c *options) error {
		cert, err := tlspin.LoadKeyPair(certPath, keyPath)
		if err != nil {
			return fmt.Errorf("loading client certificate: %w", err)
		}
		c.clientCerts = append(c.clientCerts, cert)
		return nil
	}
}

// WithClientCertificateFromPKCS12 loads a password-protected PKCS#12
// bundle and presents it for mutual TLS.
func WithClientCertificateFromPKCS12(path, password string) Option {
	return func(c *options) error {
		cert, err := tlspin.LoadPKCS12(path, password)
		if err != nil {
			return fmt.Errorf("loading PKCS#12 client certificate: %w", err)
		}
		c.clientCerts = append(c.clientCerts, cert)
		return nil
	}
}

// WithTrustedRoot pins server verification to root: connections succeed
// only when the server's chain terminates at it. The pin replaces the
// platform trust store for this client, hostnames included.
func WithTrustedRoot(root *x509.Certificate) Option {
	return func(c *options) error {
		if root == nil {
			return fmt.Errorf("%w: trusted root must not be nil", ErrInvalidArgument)
		}
		c.trustedRoot = root
		return nil
	}
}

// WithTrustedRootFromFile reads a PEM or DER certificate from path and
// pins it as the trusted root.
func WithTrustedRootFromFile(path string) Option {
	return func(c *options) error {
		root, err := tlspin.LoadCertificate(path)
		if err != nil {
			return fmt.Errorf("loading trusted root: %w", err)
		}
		c.trustedRoot = root
		return nil
	}
}

// WithCookieJar installs jar for automatic cookie handling across
// requests.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *options) error {
		if jar == nil {
			return fmt.Errorf("%w: cookie jar must not be nil", ErrInvalidArgument)
		}
		c.jar = jar
		return nil
	}
}

// WithCookies installs a fresh in-memory cookie jar.
func WithCookies() Option {
	return func(c *options) error {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return fmt.Errorf("creating cookie jar: %w", err)
		}
		c.jar = jar
		return nil
	}
}

// WithClient replaces the default [http.Client] used by the [Client].
// Its own Timeout is preserved unless [WithTimeout] is also given.
func WithClient(hc *http.Client) Option {
	return func(c *options) error {
		if hc == nil {
			return errors.New("client must not be nil")
		}
		c.client = hc
		return nil
	}
}

// WithTransport sets a custom [http.RoundTripper] as the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *options) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		c.rt = rt
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(header string) Option {
	return func(c *options) error {
		c.userAgent = header
		return nil
	}
}

// WithThrottle enables token-bucket rate limiting with the given requests
// per second and burst capacity.
func WithThrottle(rps, burst int) Option {
	return func(c *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		c.throttle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithNoFollowRedirects prevents the [Client] from following HTTP redirects.
func WithNoFollowRedirects() Option {
	return func(c *options) error {
		c.noFollowRedirects = true
		return nil
	}
}

// WithLogger injects a custom [slog.Logger] into the [Client].
func WithLogger(logger *slog.Logger) Option {
	return func(c *options) error {
		c.logger = logger
		return nil
	}
}

// WithTracer records a client span around every request and injects
// trace context headers on the wire.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *options) error {
		if tracer == nil {
			return fmt.Errorf("%w: tracer must not be nil", ErrInvalidArgument)
		}
		c.tracer = tracer
		return nil
	}
}

// WithRequestID stamps outgoing requests with a generated X-Request-Id
// header when the caller hasn't set one.
func WithRequestID() Option {
	return func(c *options) error {
		c.requestID = true
		return nil
	}
}

// DoOption is a functional option for [Client.Do].
type DoOption func(options *doOpts) error

type doOpts struct {
	responseBody any
	useJSONNum   bool
}

// WithDestination decodes the HTTP response body into bodyTemplate.
// bodyTemplate must be a pointer.
func WithDestination[T any](bodyTemplate *T) DoOption {
	return func(opts *doOpts) error {
		opts.responseBody = bodyTemplate

		return nil
	}
}

// WithJSONNumb tells the JSON decoder to use [json.Decoder.UseNumber],
// preserving number precision as [json.Number] instead of float64.
func WithJSONNumb() DoOption {
	return func(opts *doOpts) error {
		opts.useJSONNum = true

		return nil
	}
}

// RequestOption is a functional option for [Request].
type RequestOption func(options *requestOpts) error

type requestOpts struct {
	body        any
	contentType *string
	cookies     []*http.Cookie
	headers     map[string][]string
}

// WithPayload sets the JSON-encoded request body.
func WithPayload(body any) RequestOption {
	return func(opts *requestOpts) error {
		opts.body = body

		return nil
	}
}

// WithContentType sets the request's Content-Type header. A request
// carrying a payload defaults to "application/json" without it.
func WithContentType(contentType string) RequestOption {
	return func(opts *requestOpts) error {
		if contentType == "" {
			return errors.New("cannot use empty content type")
		}

		opts.contentType = &contentType

		return nil
	}
}

// WithRequestHeaders adds custom headers to the outgoing request.
func WithRequestHeaders(headers map[string][]string) RequestOption {
	return func(opts *requestOpts) error {
		opts.headers = headers

		return nil
	}
}

// WithRequestCookies attaches the given cookies to the outgoing request.
func WithRequestCookies(cookies ...*http.Cookie) RequestOption {
	return func(opts *requestOpts) error {
		opts.cookies = cookies

		return nil
	}
}

// URLOption is a functional option for [URL].
type URLOption func(options *urlOpts)

type urlOpts struct {
	queryStrings map[string]string
	port         *int
}

// WithQueryStrings appends query parameters to the URL.
func WithQueryStrings(queryKV map[string]string) URLOption {
	return func(opts *urlOpts) {
		opts.queryStrings = queryKV
	}
}

// WithPort sets the port number on the URL's host.
func WithPort(port int) URLOption {
	return func(opts *urlOpts) {
		opts.port = &port
	}
}
