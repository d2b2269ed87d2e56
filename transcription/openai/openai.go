package openai

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kbukum/whispering/httpclient"
	"github.com/kbukum/whispering/transcription"
)

const (
	transcriptionsPath = "/audio/transcriptions"
	defaultTimeout     = 120 * time.Second
)

// Config holds configuration for a hosted transcription backend.
type Config struct {
	// Provider must be transcription.OpenAI or transcription.Groq.
	Provider transcription.ProviderID `json:"provider" yaml:"provider"`
	APIKey   string                   `json:"-" yaml:"api_key"`
	// BaseURL overrides the provider's default endpoint.
	BaseURL string        `json:"base_url,omitempty" yaml:"base_url"`
	Model   string        `json:"model,omitempty" yaml:"model"`
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout"`
}

// Backend uploads recordings to an OpenAI-compatible
// /audio/transcriptions endpoint as multipart form data.
type Backend struct {
	cfg    Config
	client *httpclient.Adapter
}

var _ transcription.Backend = (*Backend)(nil)

// New creates a hosted backend. Defaults come from the provider's spec.
func New(cfg Config, opts ...httpclient.Option) (*Backend, error) {
	spec, ok := transcription.SpecFor(cfg.Provider)
	if !ok || !spec.RequiresAPIKey {
		return nil, fmt.Errorf("openai backend: %q is not a hosted provider", cfg.Provider)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = spec.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = spec.DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client, err := httpclient.New(httpclient.Config{
		Name:    string(cfg.Provider),
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    httpclient.BearerAuth(cfg.APIKey),
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("openai backend: %w", err)
	}
	return &Backend{cfg: cfg, client: client}, nil
}

// Name returns the provider's display name.
func (b *Backend) Name() string { return string(b.cfg.Provider) }

// IsAvailable reports whether an API key is configured.
func (b *Backend) IsAvailable(context.Context) bool { return b.cfg.APIKey != "" }

// Execute uploads the recording and returns the provider's transcript.
func (b *Backend) Execute(ctx context.Context, req transcription.Request) (transcription.Response, error) {
	model := b.cfg.Model
	if req.Model != "" {
		model = req.Model
	}

	form := (&httpclient.MultipartBody{}).
		AddFile("file", req.Audio.UploadName(), req.Audio.MediaType(), req.Audio.Data).
		SetField("model", model).
		SetField("language", req.Options.Language()).
		SetField("prompt", req.Options.Prompt)
	if t, ok := transcription.ParseTemperature(req.Options.Temperature); ok {
		form.SetField("temperature", strconv.FormatFloat(t, 'f', -1, 64))
	}

	resp, err := httpclient.Post(b.client, ctx, transcriptionsPath, form, transcription.ResponseSchema)
	if err != nil {
		return transcription.Response{}, transcription.FromHTTPError(b.Name(), err)
	}
	return resp.Data.Result(b.Name())
}

// Close releases idle connections.
func (b *Backend) Close(ctx context.Context) error {
	return b.client.Close(ctx)
}
