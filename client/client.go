package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/SARL-TKHA/HttpClientBuilder/client/download"
	"github.com/SARL-TKHA/HttpClientBuilder/client/throttle"
	"github.com/SARL-TKHA/HttpClientBuilder/client/tlspin"
)

// Client wraps the std-lib *http.Client with a base address, default
// headers, and response size enforcement. It is immutable after [Build];
// the zero value is not usable.
type Client struct {
	c      *http.Client
	logger *slog.Logger

	base        *url.URL
	maxRespSize int64
}

// draft is the assembled configuration checked as a whole before the
// client is constructed.
type draft struct {
	BaseAddress     string        `json:"base_address" validate:"required"`
	Timeout         time.Duration `json:"timeout" validate:"min=0"`
	MaxResponseSize int64         `json:"max_response_size" validate:"required,gt=0"`
	Credential      *Credential   `json:"credential,omitempty"`
}

// Build applies the given options and produces the finalized client.
// It fails with [ErrMissingBaseAddress] when no base address was
// configured and with [ErrInvalidArgument] when the accumulated
// configuration is inconsistent.
func Build(optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.baseAddress == "" {
		return nil, ErrMissingBaseAddress
	}

	timeout := DefaultTimeout
	switch {
	case opts.timeout != nil:
		timeout = *opts.timeout
	case opts.client != nil:
		timeout = opts.client.Timeout
	}

	maxRespSize := DefaultMaxResponseSize
	if opts.maxRespSize != nil {
		maxRespSize = *opts.maxRespSize
	}

	cfg := draft{
		BaseAddress:     opts.baseAddress,
		Timeout:         timeout,
		MaxResponseSize: maxRespSize,
		Credential:      opts.credential,
	}
	if err := checkStruct(cfg); err != nil {
		return nil, fmt.Errorf("%w: validating configuration: %w", ErrInvalidArgument, err)
	}

	base, err := baseURL(opts.baseAddress, opts.queryParams)
	if err != nil {
		return nil, err
	}

	client := &Client{
		logger:      slog.Default(),
		base:        base,
		maxRespSize: maxRespSize,
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	// The caller's *http.Client is shallow-copied so its redirect,
	// jar, and transport settings survive on the original.
	hc := &http.Client{}
	if opts.client != nil {
		cpy := *opts.client
		hc = &cpy
	}
	hc.Timeout = timeout

	if opts.noFollowRedirects {
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	if opts.jar != nil {
		hc.Jar = opts.jar
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}

	transport, err = wireTLS(transport, opts)
	if err != nil {
		return nil, err
	}

	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if hdrs := defaultHeaderValues(opts); len(hdrs) > 0 {
		transport = defaultHeaders{headers: hdrs, base: transport}
	}
	if opts.requestID {
		transport = requestID{base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(opts.throttle.RPS, opts.throttle.Burst, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	if opts.tracer != nil {
		transport = tracing{tracer: opts.tracer, base: transport}
	}

	hc.Transport = transport
	client.c = hc

	return client, nil
}

// defaultHeaderValues resolves the headers the transport stamps on every
// request. A configured accept list supersedes any Accept header given
// via WithHeader, and a configured credential supersedes a header of the
// same name, so each is registered exactly once.
func defaultHeaderValues(opts options) []headerValue {
	var hdrs []headerValue

	credName := ""
	if opts.credential != nil {
		credName, _ = opts.credential.header()
	}

	for _, h := range opts.headers {
		name := http.CanonicalHeaderKey(h.name)
		if len(opts.accept) > 0 && name == "Accept" {
			continue
		}
		if credName != "" && name == http.CanonicalHeaderKey(credName) {
			continue
		}

		hdrs = append(hdrs, h)
	}

	if len(opts.accept) > 0 {
		hdrs = append(hdrs, headerValue{name: "Accept", value: strings.Join(opts.accept, ", ")})
	}

	if opts.credential != nil {
		name, value := opts.credential.header()
		hdrs = append(hdrs, headerValue{name: name, value: value})
	}

	return hdrs
}

// wireTLS installs client certificates and the pinned-root verification
// callback on a clone of the base transport. TLS settings require an
// *http.Transport underneath.
func wireTLS(rt http.RoundTripper, opts options) (http.RoundTripper, error) {
	if len(opts.clientCerts) == 0 && opts.trustedRoot == nil {
		return rt, nil
	}

	tr, ok := rt.(*http.Transport)
	if !ok {
		return nil, fmt.Errorf("%w: TLS settings require an *http.Transport, got %T", ErrInvalidArgument, rt)
	}
	tr = tr.Clone()

	cfg := tr.TLSClientConfig
	if cfg == nil {
		cfg = &tls.Config{}
	}
	if cfg.MinVersion == 0 {
		cfg.MinVersion = tls.VersionTLS12
	}

	cfg.Certificates = append(cfg.Certificates, opts.clientCerts...)

	if opts.trustedRoot != nil {
		pin, err := tlspin.New(opts.trustedRoot)
		if err != nil {
			return nil, fmt.Errorf("pinning trusted root: %w", err)
		}

		// Verification runs entirely in the pin's callback against the
		// configured root, replacing the platform trust store.
		cfg.InsecureSkipVerify = true
		cfg.VerifyPeerCertificate = pin.VerifyPeerCertificate
	}

	tr.TLSClientConfig = cfg

	return tr, nil
}

// baseURL parses addr and appends the configured query parameters to its
// query string, percent-encoded with %20 for spaces.
func baseURL(addr string, params []queryParam) (*url.URL, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing base address: %w", ErrInvalidArgument, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base address %q must be absolute", ErrInvalidArgument, addr)
	}

	query := u.RawQuery
	for _, p := range params {
		if query != "" {
			query += "&"
		}
		query += encodeQuery(p.name) + "=" + encodeQuery(p.value)
	}
	u.RawQuery = query

	return u, nil
}

// encodeQuery percent-encodes s for a query string, emitting %20 rather
// than + for spaces.
func encodeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BaseAddress reports the client's resolved base address, build-time
// query parameters included. The caller gets a copy.
func (c *Client) BaseAddress() *url.URL {
	cpy := *c.base
	return &cpy
}

// NewRequest instantiates an *http.Request against the client's base
// address. An empty ref targets the base address itself, a relative ref
// resolves against it, and an absolute ref passes through as given.
func (c *Client) NewRequest(ctx context.Context, method, ref string, opts ...RequestOption) (*http.Request, error) {
	reqURL, err := c.resolve(ref)
	if err != nil {
		return nil, err
	}

	return Request(ctx, reqURL, method, opts...)
}

func (c *Client) resolve(ref string) (*url.URL, error) {
	if strings.TrimSpace(ref) == "" {
		return c.BaseAddress(), nil
	}

	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing request uri: %w", ErrInvalidArgument, err)
	}
	if u.IsAbs() {
		return u, nil
	}

	return c.base.ResolveReference(u), nil
}

// Do will fire the request, and write response to the given dest object if any.
func (c *Client) Do(req *http.Request, expCode int, opts ...DoOption) error {
	var settings doOpts
	for _, opt := range opts {
		err := opt(&settings)
		if err != nil {
			return err
		}
	}

	doFunc := func(resp *http.Response) error {
		if settings.responseBody != nil {
			d := json.NewDecoder(resp.Body)

			if settings.useJSONNum {
				d.UseNumber()
			}

			if err := d.Decode(settings.responseBody); err != nil {
				return fmt.Errorf("decoding body: %w", err)
			}
		}

		return nil
	}

	return c.exec(req, expCode, doFunc)
}

// Stream fires the request and hands the raw response body back for
// incremental consumption. The caller owns the returned ReadCloser and
// must close it; reading past the configured size cap fails with
// [ErrResponseTooLarge].
func (c *Client) Stream(req *http.Request, expCode int) (io.ReadCloser, error) {
	resp, err := c.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exec http do: %w", err)
	}

	if resp.StatusCode != expCode {
		statusErr := c.statusError(resp)
		if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainSize)); err != nil {
			c.logger.Error("failed to discard unused body", "error", err)
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}

		return nil, statusErr
	}

	if err := c.checkSize(resp); err != nil {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Error("failed to close response body", "error", cerr)
		}

		return nil, err
	}

	return newCappedBody(resp.Body, c.maxRespSize), nil
}

// Download executes a request that's intended to stream the response body to destPath.
// Data streams to a temp file in the same directory, then the temp file is renamed to
// destPath on success or cleared on failure.
func (c *Client) Download(req *http.Request, expCode int, destPath string, opts ...DownloadOption) error {
	if destPath == "" {
		return fmt.Errorf("%w: destPath must not be empty", ErrInvalidArgument)
	}

	dlFunc := func(resp *http.Response) error {
		if err := download.Handle(req.Context(), resp.Body, resp.ContentLength, destPath, c.logger, opts...); err != nil {
			return fmt.Errorf("download: %w", err)
		}

		return nil
	}

	return c.exec(req, expCode, dlFunc)
}

// DownloadAsync runs Download on a worker goroutine and returns a handle
// for awaiting or cancelling it. Handles created with WithBatch share a
// group whose concurrency the batch size bounds.
func (c *Client) DownloadAsync(req *http.Request, expCode int, destPath string, opts ...DownloadOption) (*download.Result, error) {
	if destPath == "" {
		return nil, fmt.Errorf("%w: destPath must not be empty", ErrInvalidArgument)
	}

	group, err := download.GroupOf(opts...)
	if err != nil {
		return nil, fmt.Errorf("resolving download group: %w", err)
	}

	work := func(ctx context.Context) error {
		return c.Download(req.WithContext(ctx), expCode, destPath, opts...)
	}

	return group.Start(req.Context(), work, c.DownloadAsync), nil
}

// Request instantiates an *http.Request with the provided information.
// It's just a convenience method that wraps the public Request func.
func (c *Client) Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	return Request(ctx, reqURL, method, opts...)
}

// URL creates a url.URL for use in Request.
// It's just a convenience method that wraps the public URL func.
func (c *Client) URL(scheme, host, path string, opts ...URLOption) *url.URL {
	return URL(scheme, host, path, opts...)
}

// exec runs the request and injected function on success after validating
// the expected status code. The body handed to fn enforces the client's
// response size cap.
func (c *Client) exec(req *http.Request, expCode int, fn execFn) error {
	resp, err := c.c.Do(req)
	if err != nil {
		return fmt.Errorf("exec http do: %w", err)
	}

	body := resp.Body
	discardBody := true
	defer func() {
		if discardBody {
			if _, err = io.Copy(io.Discard, io.LimitReader(body, maxDrainSize)); err != nil {
				c.logger.Error("failed to discard unused body", "error", err)
			}
		}
		if err = body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != expCode {
		return c.statusError(resp)
	}

	if err := c.checkSize(resp); err != nil {
		return err
	}
	resp.Body = newCappedBody(body, c.maxRespSize)

	if err := fn(resp); err != nil {
		discardBody = false
		return fmt.Errorf("exec fn: %w", err)
	}

	return nil
}

// statusError builds the error for a response outside the expected
// status. 401 and 403 additionally match [ErrAuthFailure].
func (c *Client) statusError(resp *http.Response) error {
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
	if err != nil {
		b = []byte("unable to read body")
	}

	statusErr := ErrUnexpectedStatusCode
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		statusErr = fmt.Errorf("%w: %w", ErrAuthFailure, ErrUnexpectedStatusCode)
	}

	return &UnexpectedStatusError{
		StatusCode: resp.StatusCode,
		Body:       string(b),
		Err:        statusErr,
	}
}

// checkSize rejects responses whose declared Content-Length already
// exceeds the configured cap. Chunked responses report -1 here and get
// enforced lazily as the body is read.
func (c *Client) checkSize(resp *http.Response) error {
	if resp.ContentLength > c.maxRespSize {
		return &ResponseSizeError{
			Limit: c.maxRespSize,
			Size:  resp.ContentLength,
			Err:   ErrResponseTooLarge,
		}
	}

	return nil
}

// Request instantiates an *http.Request with the provided information.
// A request carrying a payload defaults its Content-Type to
// `application/json` unless WithContentType specifies otherwise.
func Request(ctx context.Context, reqURL *url.URL, method string, opts ...RequestOption) (*http.Request, error) {
	var settings requestOpts
	for _, opt := range opts {
		err := opt(&settings)
		if err != nil {
			return nil, err
		}
	}

	var body io.Reader
	if settings.body != nil {
		var payload bytes.Buffer
		if err := json.NewEncoder(&payload).Encode(settings.body); err != nil {
			return nil, fmt.Errorf("encoding request payload: %w", err)
		}
		body = &payload
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}

	for _, cookie := range settings.cookies {
		req.AddCookie(cookie)
	}

	switch {
	case settings.contentType != nil:
		req.Header.Set("Content-Type", *settings.contentType)
	case settings.body != nil:
		req.Header.Set("Content-Type", ContentTypeJSON)
	}

	for k, v := range settings.headers {
		for _, element := range v {
			req.Header.Add(k, element)
		}
	}

	return req, nil
}

// URL creates a url.URL for use in Request.
func URL(scheme, host, path string, opts ...URLOption) *url.URL {
	var settings urlOpts
	for _, opt := range opts {
		opt(&settings)
	}

	if settings.port != nil {
		host = fmt.Sprintf("%s:%d", host, *settings.port)
	}

	endpoint := url.URL{
		Scheme: scheme,
		Host:   host,
		Path:   path,
	}

	if settings.queryStrings != nil {
		var query string
		keys := make([]string, 0, len(settings.queryStrings))
		for k := range settings.queryStrings {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if query != "" {
				query += "&"
			}
			query += encodeQuery(k) + "=" + encodeQuery(settings.queryStrings[k])
		}

		endpoint.RawQuery = query
	}

	return &endpoint
}
