package llm

import (
	"time"

	"github.com/kbukum/whispering/httpclient"
	"github.com/kbukum/whispering/resilience"
)

const defaultTimeout = 60 * time.Second

// Config holds configuration for creating an LLM adapter.
type Config struct {
	// Name identifies the remote service in errors and logs.
	Name string `yaml:"name" json:"name"`
	// Dialect selects a registered provider mapping (e.g., "openai").
	Dialect string `yaml:"dialect" json:"dialect"`
	// BaseURL is the provider's API base URL.
	BaseURL string `yaml:"base_url" json:"base_url"`
	// Model is the default model.
	Model string `yaml:"model" json:"model"`
	// Temperature is the default sampling temperature.
	Temperature float64 `yaml:"temperature" json:"temperature"`
	// MaxTokens is the default response limit. 0 means provider default.
	MaxTokens int `yaml:"max_tokens" json:"max_tokens"`
	// Timeout for HTTP requests. Defaults to 60s.
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	// Auth configures authentication (usually a Bearer token).
	Auth *httpclient.AuthConfig `yaml:"-" json:"-"`
	// Headers are additional HTTP headers sent with every request.
	Headers map[string]string `yaml:"headers" json:"headers"`
	// Retry configures retries. Nil disables them.
	Retry *resilience.RetryConfig `yaml:"-" json:"-"`
}

func (c *Config) applyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Name == "" && c.Dialect != "" {
		c.Name = c.Dialect + "-llm"
	}
}
