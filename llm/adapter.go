package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/whispering/httpclient"
)

// ErrNoDialect is returned when an adapter is built without a dialect.
var ErrNoDialect = errors.New("llm: dialect is required")

// Adapter is a chat completion client that speaks a provider's format
// through a Dialect.
//
// Adapter implements provider.RequestResponse[CompletionRequest,
// CompletionResponse] and provider.Closeable. Execute returns
// *httpclient.Error values so callers can map them with
// httpclient.ToAppError.
type Adapter struct {
	http      *httpclient.Adapter
	dialect   Dialect
	model     string
	temp      float64
	maxTokens int
}

// New creates an adapter using the registered dialect named by cfg.Dialect.
func New(cfg Config, opts ...httpclient.Option) (*Adapter, error) {
	dialect, err := GetDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	return NewWithDialect(dialect, cfg, opts...)
}

// NewWithDialect creates an adapter with an explicit dialect instance.
func NewWithDialect(dialect Dialect, cfg Config, opts ...httpclient.Option) (*Adapter, error) {
	if dialect == nil {
		return nil, ErrNoDialect
	}
	cfg.applyDefaults()
	if cfg.Name == "" {
		cfg.Name = dialect.Name() + "-llm"
	}

	client, err := httpclient.New(httpclient.Config{
		Name:    cfg.Name,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    cfg.Auth,
		Headers: cfg.Headers,
		Retry:   cfg.Retry,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("llm: create http client: %w", err)
	}

	return &Adapter{
		http:      client,
		dialect:   dialect,
		model:     cfg.Model,
		temp:      cfg.Temperature,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Name returns the adapter name.
func (a *Adapter) Name() string { return a.http.Name() }

// IsAvailable probes the dialect's health endpoint when it has one.
func (a *Adapter) IsAvailable(ctx context.Context) bool {
	if hp := a.dialect.HealthPath(); hp != "" {
		_, err := httpclient.Get[json.RawMessage](a.http, ctx, hp, nil)
		return err == nil
	}
	return a.http.IsAvailable(ctx)
}

// Close releases idle connections.
func (a *Adapter) Close(ctx context.Context) error { return a.http.Close(ctx) }

// Execute sends a completion request and returns the full response.
func (a *Adapter) Execute(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	a.applyDefaults(&req)

	body, err := a.dialect.BuildRequest(req)
	if err != nil {
		return CompletionResponse{}, httpclient.NewRequestError(fmt.Sprintf("llm: build request: %v", err))
	}

	schema := httpclient.SchemaFunc[*CompletionResponse](a.dialect.ParseResponse)
	resp, err := httpclient.Post(a.http, ctx, a.dialect.ChatPath(), body, httpclient.Schema[*CompletionResponse](schema))
	if err != nil {
		return CompletionResponse{}, err
	}
	if resp.Data == nil {
		return CompletionResponse{}, httpclient.NewResponseShapeError(resp.StatusCode, nil, []string{"empty completion"})
	}
	return *resp.Data, nil
}

// Dialect returns the dialect used by this adapter.
func (a *Adapter) Dialect() Dialect { return a.dialect }

func (a *Adapter) applyDefaults(req *CompletionRequest) {
	if req.Model == "" {
		req.Model = a.model
	}
	if req.Temperature == nil {
		req.Temperature = Float(a.temp)
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = a.maxTokens
	}
}
