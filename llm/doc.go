// Package llm is a chat completion client built on httpclient.
//
// Provider formats are plugged in through the Dialect interface, much like
// database/sql drivers. The OpenAI-compatible dialect lives in llm/openai
// and registers itself as "openai":
//
//	import _ "github.com/kbukum/whispering/llm/openai"
//
//	adapter, err := llm.New(llm.Config{
//		Dialect: "openai",
//		BaseURL: "https://api.openai.com/v1",
//		Model:   "gpt-4o-mini",
//		Auth:    httpclient.BearerAuth(apiKey),
//	})
//	text, err := llm.Complete(ctx, adapter, systemPrompt, transcript, llm.Float(0.7))
//
// Responses are not streamed.
package llm
