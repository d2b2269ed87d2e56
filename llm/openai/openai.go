// Package openai registers the OpenAI chat completions dialect for the llm
// package. Any OpenAI-compatible endpoint works.
package openai

import (
	"encoding/json"

	"github.com/kbukum/whispering/httpclient"
	"github.com/kbukum/whispering/llm"
)

// DialectName is the registry name of this dialect.
const DialectName = "openai"

func init() {
	llm.RegisterDialect(DialectName, &Dialect{})
}

// Dialect implements llm.Dialect for the OpenAI chat completions API.
type Dialect struct{}

func (d *Dialect) Name() string       { return DialectName }
func (d *Dialect) ChatPath() string   { return "/chat/completions" }
func (d *Dialect) HealthPath() string { return "" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// BuildRequest maps a completion request to the chat completions body.
func (d *Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	return chatRequest{
		Model:       req.Model,
		Messages:    req.AllMessages(),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, nil
}

// ParseResponse extracts choices[0].message.content. Anything else about
// the body is optional.
func (d *Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, httpclient.NewShapeError("body: expected JSON object")
	}

	var choices []struct {
		Message map[string]json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(raw["choices"], &choices); err != nil || raw["choices"] == nil {
		return nil, httpclient.NewShapeError("choices: expected array")
	}
	if len(choices) == 0 {
		return nil, httpclient.NewShapeError("choices: expected at least one element")
	}
	if choices[0].Message == nil {
		return nil, httpclient.NewShapeError("choices[0].message: expected object")
	}
	var content string
	rawContent := choices[0].Message["content"]
	if err := json.Unmarshal(rawContent, &content); err != nil || string(rawContent) == "null" {
		return nil, httpclient.NewShapeError("choices[0].message.content: expected string")
	}

	out := &llm.CompletionResponse{Content: content}
	var meta struct {
		Model string    `json:"model"`
		Usage llm.Usage `json:"usage"`
	}
	if json.Unmarshal(body, &meta) == nil {
		out.Model = meta.Model
		out.Usage = meta.Usage
	}
	return out, nil
}
