package provider

import "context"

// Provider is the base interface every backend implements.
type Provider interface {
	// Name returns the provider's display name, e.g. "OpenAI".
	Name() string
	// IsAvailable reports whether the provider is ready to handle requests.
	IsAvailable(ctx context.Context) bool
}

// Closeable is implemented by providers that hold resources such as idle
// HTTP connections.
type Closeable interface {
	Close(ctx context.Context) error
}
