package settings

import (
	"github.com/kbukum/whispering/cleanup"
	"github.com/kbukum/whispering/transcription"
	"github.com/kbukum/whispering/validation"
)

// Config is the file and environment form of the settings, loaded under the
// "transcription" key:
//
//	transcription:
//	  provider: Groq
//	  groq:
//	    api_key: gsk_...
//	  cleanup:
//	    prompt: "Fix punctuation."
//
// TRANSCRIPTION_GROQ_API_KEY and friends override file values.
type Config struct {
	Provider       string  `yaml:"provider" mapstructure:"provider" validate:"required,oneof=OpenAI Groq faster-whisper-server"`
	OutputLanguage string  `yaml:"output_language" mapstructure:"output_language" validate:"max=8"`
	Prompt         string  `yaml:"prompt" mapstructure:"prompt"`
	Temperature    string  `yaml:"temperature" mapstructure:"temperature"`
	OpenAI         KeyOnly `yaml:"openai" mapstructure:"openai"`
	Groq           KeyOnly `yaml:"groq" mapstructure:"groq"`
	Whisper        Whisper `yaml:"whisper" mapstructure:"whisper"`
	Cleanup        Cleanup `yaml:"cleanup" mapstructure:"cleanup"`
}

// KeyOnly holds a hosted provider's credential.
type KeyOnly struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
}

// Whisper locates a faster-whisper-server deployment.
type Whisper struct {
	URL   string `yaml:"url" mapstructure:"url" validate:"omitempty,http_url"`
	Model string `yaml:"model" mapstructure:"model"`
}

// Cleanup configures the optional cleanup step.
type Cleanup struct {
	Prompt      string `yaml:"prompt" mapstructure:"prompt"`
	Temperature string `yaml:"temperature" mapstructure:"temperature"`
	APIKey      string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url" validate:"omitempty,http_url"`
	Model       string `yaml:"model" mapstructure:"model"`
	MaxTokens   int    `yaml:"max_tokens" mapstructure:"max_tokens" validate:"gte=0"`
}

// ApplyDefaults fills unset values.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = string(transcription.OpenAI)
	} else if p, err := transcription.ParseProviderID(c.Provider); err == nil {
		c.Provider = string(p)
	}
	if c.OutputLanguage == "" {
		c.OutputLanguage = transcription.AutoLanguage
	}
	if c.Whisper.URL == "" {
		c.Whisper.URL = transcription.FasterWhisperURL
	}
	if c.Whisper.Model == "" {
		c.Whisper.Model = transcription.FasterWhisperModel
	}
	if c.Cleanup.BaseURL == "" {
		c.Cleanup.BaseURL = cleanup.DefaultBaseURL
	}
	if c.Cleanup.Model == "" {
		c.Cleanup.Model = cleanup.DefaultModel
	}
	// The OpenAI key doubles as the cleanup key.
	if c.Cleanup.APIKey == "" {
		c.Cleanup.APIKey = c.OpenAI.APIKey
	}
}

// Validate checks the struct tags. Credentials are not checked here; the
// transcriber reports them per call.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Snapshot converts the config into a Snapshot.
func (c Config) Snapshot() Snapshot {
	id := transcription.ProviderID(c.Provider)
	if p, err := transcription.ParseProviderID(c.Provider); err == nil {
		id = p
	}
	return Snapshot{
		Provider:           id,
		OpenAIAPIKey:       c.OpenAI.APIKey,
		GroqAPIKey:         c.Groq.APIKey,
		FasterWhisperURL:   c.Whisper.URL,
		FasterWhisperModel: c.Whisper.Model,
		OutputLanguage:     c.OutputLanguage,
		Prompt:             c.Prompt,
		Temperature:        c.Temperature,
		CleanupPrompt:      c.Cleanup.Prompt,
		CleanupTemperature: c.Cleanup.Temperature,
		Cleanup: cleanup.Config{
			APIKey:    c.Cleanup.APIKey,
			BaseURL:   c.Cleanup.BaseURL,
			Model:     c.Cleanup.Model,
			MaxTokens: c.Cleanup.MaxTokens,
		},
	}
}
