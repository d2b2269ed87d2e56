package llm

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Dialect maps universal LLM types to and from a provider's HTTP format.
//
// ParseResponse receives only 2xx bodies and should report structural
// mismatches as *httpclient.ShapeError so the adapter can surface them as
// response shape errors.
type Dialect interface {
	// Name returns the dialect identifier (e.g., "openai").
	Name() string
	// ChatPath returns the chat completion endpoint path.
	ChatPath() string
	// HealthPath returns the health-check endpoint path. Empty means none.
	HealthPath() string
	// BuildRequest maps a CompletionRequest to the provider's JSON body.
	BuildRequest(req CompletionRequest) (any, error)
	// ParseResponse maps the provider's JSON body to a CompletionResponse.
	ParseResponse(body []byte) (*CompletionResponse, error)
}

var (
	dialectsMu sync.RWMutex
	dialects   = map[string]Dialect{}
)

// RegisterDialect adds a dialect to the global registry. Dialect packages
// call it from init:
//
//	import _ "github.com/kbukum/whispering/llm/openai"
func RegisterDialect(name string, d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[name] = d
}

// GetDialect retrieves a dialect by name from the global registry.
func GetDialect(name string) (Dialect, error) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("llm: unknown dialect %q (forgot to import driver?)", name)
	}
	return d, nil
}

// Dialects returns the registered dialect names, sorted.
func Dialects() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	return slices.Sorted(maps.Keys(dialects))
}
