package llm

import "github.com/kbukum/whispering/provider"

var (
	_ provider.RequestResponse[CompletionRequest, CompletionResponse] = (*Adapter)(nil)
	_ provider.Closeable                                              = (*Adapter)(nil)
)
