package transcription

import (
	"github.com/kbukum/whispering/provider"
)

// AutoLanguage asks the provider to detect the spoken language.
const AutoLanguage = "auto"

// Options steer a single transcription call.
type Options struct {
	// OutputLanguage is an ISO code or AutoLanguage. Empty means auto.
	OutputLanguage string `json:"output_language,omitempty"`
	Prompt         string `json:"prompt,omitempty"`
	// Temperature is forwarded only when it parses as a number.
	Temperature string `json:"temperature,omitempty"`
	// CleanupPrompt overrides the configured cleanup prompt.
	CleanupPrompt string `json:"cleanup_prompt,omitempty"`
	// CleanupTemperature overrides the configured cleanup temperature.
	CleanupTemperature string `json:"cleanup_temperature,omitempty"`
}

// Language returns the language to send, or "" when detection is left to
// the provider.
func (o Options) Language() string {
	if o.OutputLanguage == "" || o.OutputLanguage == AutoLanguage {
		return ""
	}
	return o.OutputLanguage
}

// Request is the input to a transcription backend.
type Request struct {
	Audio   Audio
	Options Options
	// Model overrides the provider's default model.
	Model string
}

// Response is the normalized backend output. Text is untrimmed.
type Response struct {
	Text string `json:"text"`
}

// Backend is a transcription service reachable over HTTP. Failures are
// always *errors.AppError values tagged with the transcription stage.
type Backend = provider.RequestResponse[Request, Response]
