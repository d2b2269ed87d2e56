package llm

import (
	"context"

	"github.com/kbukum/whispering/provider"
)

// Complete sends a system prompt and one user message and returns the
// generated text. It accepts any RequestResponse so middleware-wrapped
// adapters work too.
func Complete(ctx context.Context, p provider.RequestResponse[CompletionRequest, CompletionResponse], system, user string, temperature *float64) (string, error) {
	resp, err := p.Execute(ctx, CompletionRequest{
		SystemPrompt: system,
		Messages:     []Message{{Role: RoleUser, Content: user}},
		Temperature:  temperature,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
