package settings

import (
	"sync/atomic"

	"github.com/kbukum/whispering/cleanup"
	"github.com/kbukum/whispering/transcription"
)

// Snapshot is a read-only view of the transcription settings. A call reads
// one snapshot at its start and uses it throughout.
type Snapshot struct {
	Provider transcription.ProviderID

	OpenAIAPIKey string
	GroqAPIKey   string

	FasterWhisperURL   string
	FasterWhisperModel string

	// OutputLanguage is an ISO-639-1 code or "auto".
	OutputLanguage string
	// Prompt steers the transcription model.
	Prompt string
	// Temperature is the raw transcription temperature setting.
	Temperature string

	// CleanupPrompt enables cleanup when non-empty.
	CleanupPrompt string
	// CleanupTemperature is the raw setting, parsed with
	// cleanup.ParseTemperature.
	CleanupTemperature string
	// Cleanup is the chat completion endpoint used for cleanup.
	Cleanup cleanup.Config
}

// APIKey returns the key stored for a hosted provider.
func (s Snapshot) APIKey(p transcription.ProviderID) string {
	switch p {
	case transcription.OpenAI:
		return s.OpenAIAPIKey
	case transcription.Groq:
		return s.GroqAPIKey
	default:
		return ""
	}
}

// Source supplies the current snapshot. Implementations must be safe for
// concurrent use.
type Source interface {
	Snapshot() Snapshot
}

// Static is a Source that never changes.
type Static Snapshot

// Snapshot returns s.
func (s Static) Snapshot() Snapshot { return Snapshot(s) }

// Store is a Source whose snapshot an external owner may replace between
// calls. In-flight calls keep the snapshot they started with.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a Store holding initial.
func NewStore(initial Snapshot) *Store {
	s := &Store{}
	s.Set(initial)
	return s
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	if p := s.current.Load(); p != nil {
		return *p
	}
	return Snapshot{}
}

// Set replaces the current snapshot.
func (s *Store) Set(snap Snapshot) {
	s.current.Store(&snap)
}

// Update applies fn to a copy of the current snapshot and stores the result.
// Concurrent updates retry until one wins.
func (s *Store) Update(fn func(*Snapshot)) {
	for {
		old := s.current.Load()
		var next Snapshot
		if old != nil {
			next = *old
		}
		fn(&next)
		if s.current.CompareAndSwap(old, &next) {
			return
		}
	}
}
