package transcription

import (
	"fmt"
	"strings"

	apperrors "github.com/kbukum/whispering/errors"
)

// ProviderID identifies one of the supported transcription services.
type ProviderID string

const (
	OpenAI              ProviderID = "OpenAI"
	Groq                ProviderID = "Groq"
	FasterWhisperServer ProviderID = "faster-whisper-server"
)

// Providers returns every supported provider in display order.
func Providers() []ProviderID {
	return []ProviderID{OpenAI, Groq, FasterWhisperServer}
}

// ParseProviderID matches s against the supported providers, ignoring case.
func ParseProviderID(s string) (ProviderID, error) {
	for _, p := range Providers() {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown transcription provider %q", s)
}

func (p ProviderID) String() string { return string(p) }

// Spec describes how to reach a provider and what it accepts.
type Spec struct {
	ID             ProviderID
	BaseURL        string
	DefaultModel   string
	RequiresAPIKey bool
	KeyPrefix      string
	// MaxSizeMB is the largest accepted upload. Zero means unlimited.
	MaxSizeMB int
}

// Provider defaults.
const (
	OpenAIBaseURL       = "https://api.openai.com/v1"
	GroqBaseURL         = "https://api.groq.com/openai/v1"
	FasterWhisperURL    = "http://localhost:8000"
	OpenAIModel         = "whisper-1"
	GroqModel           = "whisper-large-v3"
	FasterWhisperModel  = "Systran/faster-whisper-medium.en"
	HostedMaxSizeMB     = 25
	OpenAIKeyPrefix     = "sk-"
	GroqKeyPrefix       = "gsk_"
	recordingFileName   = "recording"
	defaultAudioMIME    = "audio/webm"
	defaultAudioExt     = "webm"
)

// SpecFor returns the provider's spec. ok is false for values outside the
// supported set.
func SpecFor(p ProviderID) (spec Spec, ok bool) {
	switch p {
	case OpenAI:
		return Spec{
			ID: OpenAI, BaseURL: OpenAIBaseURL, DefaultModel: OpenAIModel,
			RequiresAPIKey: true, KeyPrefix: OpenAIKeyPrefix, MaxSizeMB: HostedMaxSizeMB,
		}, true
	case Groq:
		return Spec{
			ID: Groq, BaseURL: GroqBaseURL, DefaultModel: GroqModel,
			RequiresAPIKey: true, KeyPrefix: GroqKeyPrefix, MaxSizeMB: HostedMaxSizeMB,
		}, true
	case FasterWhisperServer:
		return Spec{
			ID: FasterWhisperServer, BaseURL: FasterWhisperURL, DefaultModel: FasterWhisperModel,
		}, true
	}
	return Spec{}, false
}

// UnknownProvider is returned when a provider value is outside the
// supported set.
func UnknownProvider(p ProviderID) *apperrors.AppError {
	return apperrors.Internal(fmt.Errorf("unknown transcription provider %q", p)).
		WithAction(apperrors.GoToSettings()).
		WithDetail("provider", string(p)).
		WithStage(apperrors.StageTranscription)
}

// Check validates the API key and the payload size for this provider. The
// first failing check wins: key presence, key prefix, then size.
func (s Spec) Check(apiKey string, audio Audio) *apperrors.AppError {
	if s.RequiresAPIKey {
		if apiKey == "" {
			return apperrors.MissingCredential(string(s.ID)).WithStage(apperrors.StageTranscription)
		}
		if s.KeyPrefix != "" && !strings.HasPrefix(apiKey, s.KeyPrefix) {
			return apperrors.InvalidCredential(string(s.ID), s.KeyPrefix).WithStage(apperrors.StageTranscription)
		}
	}
	if s.MaxSizeMB > 0 && audio.SizeMB() > float64(s.MaxSizeMB) {
		return apperrors.PayloadTooLarge(audio.SizeMB(), s.MaxSizeMB).WithStage(apperrors.StageTranscription)
	}
	return nil
}
