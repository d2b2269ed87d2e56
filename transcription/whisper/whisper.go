package whisper

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/kbukum/whispering/httpclient"
	"github.com/kbukum/whispering/transcription"
)

const (
	transcriptionsPath = "/v1/audio/transcriptions"
	healthPath         = "/health"
	defaultTimeout     = 120 * time.Second
	healthTimeout      = 3 * time.Second
)

// Config holds configuration for the faster-whisper-server backend.
type Config struct {
	URL     string        `json:"url" yaml:"url"`
	Model   string        `json:"model" yaml:"model"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Provider implements transcription.Backend against a self-hosted
// faster-whisper-server. No API key is involved.
type Provider struct {
	cfg    Config
	client *httpclient.Adapter
}

var _ transcription.Backend = (*Provider)(nil)

// NewProvider creates a new faster-whisper-server backend.
func NewProvider(cfg Config, opts ...httpclient.Option) (*Provider, error) {
	if cfg.URL == "" {
		cfg.URL = transcription.FasterWhisperURL
	}
	if cfg.Model == "" {
		cfg.Model = transcription.FasterWhisperModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	client, err := httpclient.New(httpclient.Config{
		Name:    string(transcription.FasterWhisperServer),
		BaseURL: cfg.URL,
		Timeout: cfg.Timeout,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("whisper backend: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

// Name returns the provider name.
func (p *Provider) Name() string { return string(transcription.FasterWhisperServer) }

// IsAvailable checks if the server answers GET /health with a 2xx.
func (p *Provider) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	resp, err := p.client.Do(ctx, httpclient.Request{Path: healthPath})
	return err == nil && resp.IsSuccess()
}

// transcribeRequest is the JSON body accepted by the server.
type transcribeRequest struct {
	File        string   `json:"file"`
	FileName    string   `json:"filename"`
	Model       string   `json:"model"`
	Language    string   `json:"language,omitempty"`
	Prompt      string   `json:"prompt,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}

// Execute sends the recording base64-encoded in a JSON body.
func (p *Provider) Execute(ctx context.Context, req transcription.Request) (transcription.Response, error) {
	body := transcribeRequest{
		File:     base64.StdEncoding.EncodeToString(req.Audio.Data),
		FileName: req.Audio.UploadName(),
		Model:    p.cfg.Model,
		Language: req.Options.Language(),
		Prompt:   req.Options.Prompt,
	}
	if req.Model != "" {
		body.Model = req.Model
	}
	if t, ok := transcription.ParseTemperature(req.Options.Temperature); ok {
		body.Temperature = &t
	}

	resp, err := httpclient.Post(p.client, ctx, transcriptionsPath, body, transcription.ResponseSchema)
	if err != nil {
		return transcription.Response{}, transcription.FromHTTPError(p.Name(), err)
	}
	return resp.Data.Result(p.Name())
}

// Close releases idle connections.
func (p *Provider) Close(ctx context.Context) error {
	return p.client.Close(ctx)
}
