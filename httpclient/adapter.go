package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kbukum/whispering/provider"
	"github.com/kbukum/whispering/resilience"
)

// Adapter is a configurable HTTP adapter with built-in auth and optional retry.
// It can be used as a simple HTTP client or as a provider.RequestResponse for
// composition with the provider middleware.
type Adapter struct {
	httpClient *http.Client
	config     Config
}

var (
	_ provider.RequestResponse[Request, *Response] = (*Adapter)(nil)
	_ provider.Closeable                           = (*Adapter)(nil)
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(a *Adapter) {
		if client != nil {
			a.httpClient = client
		}
	}
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Adapter{
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		config: cfg,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Do executes an HTTP request and returns the complete response.
// Non-2xx responses are returned together with a classified *Error.
func (c *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	if c.config.Retry == nil {
		return c.executeRequest(ctx, req)
	}
	resp, err := resilience.Retry(ctx, *c.config.Retry, func() (*Response, error) {
		return c.executeRequest(ctx, req)
	})
	var e *Error
	if err != nil && !errors.As(err, &e) {
		// Retry aborts with the bare context error when ctx ends between attempts.
		return resp, classifyTransportError(ctx, err)
	}
	return resp, err
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Adapter) Unwrap() *http.Client {
	return c.httpClient
}

// executeRequest builds and sends the HTTP request.
func (c *Adapter) executeRequest(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(ctx, fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
	}

	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
			classErr.Wait = parseRetryAfter(resp.Header.Get("Retry-After"))
		}
		return result, classErr
	}

	return result, nil
}

// classifyTransportError separates caller cancellation from timeouts and
// connection failures.
func classifyTransportError(ctx context.Context, err error) *Error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return NewCancelledError(err)
	case ctx.Err() != nil:
		return NewTimeoutError(err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError(err)
	}
	return NewConnectionError(err)
}

// buildRequest constructs an *http.Request from the adapter config and request.
func (c *Adapter) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	url := req.Path
	if c.config.BaseURL != "" && !strings.HasPrefix(req.Path, "http://") && !strings.HasPrefix(req.Path, "https://") {
		url = strings.TrimRight(c.config.BaseURL, "/") + "/" + strings.TrimLeft(req.Path, "/")
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewRequestError(fmt.Sprintf("encode body: %v", err))
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, NewRequestError(fmt.Sprintf("create request: %v", err))
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	// Multipart bodies carry their boundary, so their content type always wins.
	if mp, ok := req.Body.(*MultipartBody); ok && mp != nil {
		httpReq.Header.Set("Content-Type", contentType)
	} else if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	// Request-level auth overrides client-level.
	auth := c.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case *MultipartBody:
		if v == nil {
			return nil, "", nil
		}
		return v.encode()
	case io.Reader:
		return v, "", nil
	case []byte:
		return bytes.NewReader(v), "", nil
	case string:
		return strings.NewReader(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}

// --- provider.Provider interface ---

// Name returns the adapter name (implements provider.Provider).
func (c *Adapter) Name() string {
	return c.config.Name
}

// IsAvailable reports whether the adapter can issue requests (implements provider.Provider).
func (c *Adapter) IsAvailable(_ context.Context) bool {
	return c.httpClient != nil
}

// --- provider.RequestResponse[Request, *Response] interface ---

// Execute sends an HTTP request and returns the response (implements provider.RequestResponse).
func (c *Adapter) Execute(ctx context.Context, req Request) (*Response, error) {
	return c.Do(ctx, req)
}

// Close releases idle connections (implements provider.Closeable).
func (c *Adapter) Close(_ context.Context) error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// GetConfig returns the adapter's configuration.
func (c *Adapter) GetConfig() Config {
	return c.config
}
