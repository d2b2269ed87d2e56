package cleanup

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/kbukum/whispering/errors"
	"github.com/kbukum/whispering/httpclient"
	"github.com/kbukum/whispering/llm"
	llmopenai "github.com/kbukum/whispering/llm/openai"
	"github.com/kbukum/whispering/logger"
	"github.com/kbukum/whispering/observability"
	"github.com/kbukum/whispering/provider"
	"github.com/kbukum/whispering/result"
)

// Defaults for the chat completion endpoint.
const (
	DefaultBaseURL     = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 1000
	DefaultTemperature = 0.7
	DefaultTimeout     = 60 * time.Second

	// DefaultSystemPrompt is sent when no cleanup prompt is configured.
	DefaultSystemPrompt = "You are a helpful assistant. Please respond in the same language as the user's input."

	// ServiceName names the cleanup endpoint in errors and logs.
	ServiceName = "OpenAI"
	keyPrefix   = "sk-"
	component   = "cleanup"
)

// Config describes the chat completion endpoint used for cleanup.
type Config struct {
	APIKey    string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string        `yaml:"base_url" mapstructure:"base_url"`
	Model     string        `yaml:"model" mapstructure:"model"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
}

// usesOpenAI reports whether the endpoint is OpenAI's own API, where keys
// carry the sk- prefix.
func (c Config) usesOpenAI() bool {
	return strings.TrimRight(c.BaseURL, "/") == DefaultBaseURL
}

// CheckCredential validates the API key without any I/O.
func (c Config) CheckCredential() *apperrors.AppError {
	if c.APIKey == "" {
		return apperrors.MissingCredential(ServiceName).WithStage(apperrors.StageCleanup)
	}
	if c.usesOpenAI() && !strings.HasPrefix(c.APIKey, keyPrefix) {
		return apperrors.InvalidCredential(ServiceName, keyPrefix).WithStage(apperrors.StageCleanup)
	}
	return nil
}

// Option configures a Cleaner.
type Option func(*options)

type options struct {
	httpOpts []httpclient.Option
	log      *logger.Logger
	metrics  *observability.Metrics
}

// WithHTTPOptions passes options to the underlying HTTP client.
func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(o *options) { o.httpOpts = append(o.httpOpts, opts...) }
}

// WithLogger sets the logger used for each completion call.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records each completion call on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// Cleaner rewrites transcripts through a chat completion endpoint.
type Cleaner struct {
	cfg     Config
	backend provider.RequestResponse[llm.CompletionRequest, llm.CompletionResponse]
}

// New creates a Cleaner. The credential is not checked here so that
// Cleanup can report it as a canonical error.
func New(cfg Config, opts ...Option) (*Cleaner, error) {
	cfg.ApplyDefaults()
	o := options{log: logger.Get(component)}
	for _, opt := range opts {
		opt(&o)
	}

	adapter, err := llm.New(llm.Config{
		Name:      ServiceName,
		Dialect:   llmopenai.DialectName,
		BaseURL:   cfg.BaseURL,
		Model:     cfg.Model,
		MaxTokens: cfg.MaxTokens,
		Timeout:   cfg.Timeout,
		Auth:      httpclient.BearerAuth(cfg.APIKey),
	}, o.httpOpts...)
	if err != nil {
		return nil, err
	}

	mapped := provider.Func(ServiceName, func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
		resp, err := adapter.Execute(ctx, req)
		if err != nil {
			return resp, httpclient.ToAppError(ServiceName, err).WithStage(apperrors.StageCleanup)
		}
		return resp, nil
	})

	backend := provider.Chain(
		provider.WithLogging[llm.CompletionRequest, llm.CompletionResponse](o.log),
		provider.WithTracing[llm.CompletionRequest, llm.CompletionResponse](observability.SpanCleanup),
		provider.WithMetrics[llm.CompletionRequest, llm.CompletionResponse](o.metrics, component),
	)(mapped)

	return &Cleaner{cfg: cfg, backend: backend}, nil
}

// Config returns the effective configuration.
func (c *Cleaner) Config() Config { return c.cfg }

// SystemPrompt returns the first non-blank candidate, or DefaultSystemPrompt.
func SystemPrompt(candidates ...string) string {
	for _, p := range candidates {
		if strings.TrimSpace(p) != "" {
			return p
		}
	}
	return DefaultSystemPrompt
}

// Cleanup sends text to the endpoint with prompt as the system message and
// returns the trimmed reply. A blank prompt becomes DefaultSystemPrompt.
// Every failure is tagged with the cleanup stage.
func (c *Cleaner) Cleanup(ctx context.Context, text, prompt string, temperature float64) result.Result[string, *apperrors.AppError] {
	if appErr := c.cfg.CheckCredential(); appErr != nil {
		return result.Fail[string](appErr)
	}
	prompt = SystemPrompt(prompt)

	resp, err := c.backend.Execute(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: prompt},
			{Role: llm.RoleUser, Content: text},
		},
		Temperature: llm.Float(temperature),
	})
	if err != nil {
		appErr := httpclient.ToAppError(ServiceName, err)
		if appErr.Stage == "" {
			appErr.WithStage(apperrors.StageCleanup)
		}
		return result.Fail[string](appErr)
	}
	return result.Ok[string, *apperrors.AppError](strings.TrimSpace(resp.Content))
}

// ParseTemperature parses a temperature setting. Empty, unparseable and
// non-finite values fall back to DefaultTemperature.
func ParseTemperature(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultTemperature
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return DefaultTemperature
	}
	return v
}
