package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

// TypedResponse wraps a response with a decoded body of type T.
type TypedResponse[T any] struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Data is the decoded response body.
	Data T
}

// Schema validates a successful response body and decodes it into T.
type Schema[T any] interface {
	Parse(body []byte) (T, error)
}

// SchemaFunc adapts a function to Schema.
type SchemaFunc[T any] func(body []byte) (T, error)

// Parse calls f(body).
func (f SchemaFunc[T]) Parse(body []byte) (T, error) { return f(body) }

// ShapeError lists the structural mismatches a Schema found.
type ShapeError struct {
	Issues []string
}

func (e *ShapeError) Error() string {
	if len(e.Issues) == 1 {
		return "response shape: " + e.Issues[0]
	}
	return "response shape: multiple mismatches"
}

// NewShapeError returns a ShapeError for the given issues.
func NewShapeError(issues ...string) *ShapeError {
	return &ShapeError{Issues: issues}
}

// RequestOption configures a single request.
type RequestOption func(*Request)

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithQueryParam adds a query parameter to the request.
func WithQueryParam(key, value string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = make(map[string]string)
		}
		r.Query[key] = value
	}
}

// WithRequestAuth overrides authentication for the request.
func WithRequestAuth(auth *AuthConfig) RequestOption {
	return func(r *Request) {
		r.Auth = auth
	}
}

// Get performs a GET request and decodes the response into type T.
// A nil schema decodes the body as plain JSON.
func Get[T any](a *Adapter, ctx context.Context, path string, schema Schema[T], opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped(a, ctx, http.MethodGet, path, nil, schema, opts...)
}

// Post performs a POST request and decodes the response into type T.
// The body may be a *MultipartBody or any JSON-encodable value. A nil schema
// decodes the body as plain JSON.
func Post[T any](a *Adapter, ctx context.Context, path string, body any, schema Schema[T], opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped(a, ctx, http.MethodPost, path, body, schema, opts...)
}

// doTyped executes a request and validates the 2xx body against schema.
func doTyped[T any](a *Adapter, ctx context.Context, method, path string, body any, schema Schema[T], opts ...RequestOption) (*TypedResponse[T], error) {
	req := Request{
		Method: method,
		Path:   path,
		Body:   body,
	}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := a.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if schema == nil {
		schema = SchemaFunc[T](decodeJSON[T])
	}
	data, err := schema.Parse(resp.Body)
	if err != nil {
		var shapeErr *ShapeError
		issues := []string{err.Error()}
		if errors.As(err, &shapeErr) {
			issues = shapeErr.Issues
		}
		shape := NewResponseShapeError(resp.StatusCode, resp.Body, issues)
		shape.Err = err
		return nil, shape
	}

	return &TypedResponse[T]{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Data:       data,
	}, nil
}

func decodeJSON[T any](body []byte) (T, error) {
	var data T
	if len(body) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return data, NewShapeError("decode: " + err.Error())
	}
	return data, nil
}
