package llm

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single chat message.
type Message struct {
	Role    string `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// CompletionRequest is the universal chat completion input.
type CompletionRequest struct {
	// Model overrides the adapter's default model.
	Model string `json:"model,omitempty" yaml:"model"`
	// Messages is the conversation history.
	Messages []Message `json:"messages" yaml:"messages"`
	// SystemPrompt is prepended as a system message.
	SystemPrompt string `json:"system_prompt,omitempty" yaml:"system_prompt"`
	// Temperature controls randomness. Nil falls back to the adapter default.
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature"`
	// MaxTokens limits the response length. 0 means provider default.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens"`
}

// CompletionResponse is the universal chat completion output.
type CompletionResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   Usage  `json:"usage"`
}

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Float returns a pointer to v, for CompletionRequest.Temperature.
func Float(v float64) *float64 { return &v }

// AllMessages returns the system prompt, if any, followed by Messages.
func (r CompletionRequest) AllMessages() []Message {
	if r.SystemPrompt == "" {
		return r.Messages
	}
	out := make([]Message, 0, len(r.Messages)+1)
	out = append(out, Message{Role: RoleSystem, Content: r.SystemPrompt})
	return append(out, r.Messages...)
}
