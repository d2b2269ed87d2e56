package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Precondition errors, detected before any network call.
const (
	// ErrCodeMissingCredential indicates the selected provider requires an API key that is not set.
	ErrCodeMissingCredential ErrorCode = "MISSING_CREDENTIAL"
	// ErrCodeInvalidCredential indicates the API key does not carry the provider's prefix.
	ErrCodeInvalidCredential ErrorCode = "INVALID_CREDENTIAL"
	// ErrCodePayloadTooLarge indicates the audio exceeds the provider's size ceiling.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
)

// Transport and provider errors
const (
	// ErrCodeNetwork indicates the request never produced a response.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"
	// ErrCodeHTTPStatus indicates the provider answered with a non-2xx status.
	ErrCodeHTTPStatus ErrorCode = "HTTP_STATUS_ERROR"
	// ErrCodeProviderReported indicates a 2xx response whose body is the provider's error shape.
	ErrCodeProviderReported ErrorCode = "PROVIDER_REPORTED_ERROR"
	// ErrCodeResponseShape indicates a 2xx response matching no known shape.
	ErrCodeResponseShape ErrorCode = "RESPONSE_SHAPE_ERROR"
	// ErrCodeCancelled indicates the caller cancelled the operation.
	ErrCodeCancelled ErrorCode = "CANCELLED"
	// ErrCodeCleanupFailed indicates transcription succeeded but the cleanup step failed.
	ErrCodeCleanupFailed ErrorCode = "CLEANUP_FAILED"
)

// Input and internal errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeRateLimited indicates the server refused the request to protect provider quota.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeInternal indicates a programming fault or unexpected state.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeNetwork:     true,
	ErrCodeRateLimited: true,
	ErrCodeInternal:    false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// Stage names the step of a transcription call that failed.
type Stage string

const (
	StageTranscription Stage = "transcription"
	StageCleanup       Stage = "cleanup"
)

// ActionType discriminates the remediation attached to an error.
type ActionType string

const (
	// ActionLink points the user at a place in the application where the problem can be fixed.
	ActionLink ActionType = "link"
	// ActionMoreDetails carries the raw underlying error text.
	ActionMoreDetails ActionType = "more-details"
)

// SettingsPath is where credential and provider settings are edited.
const SettingsPath = "/settings/transcription"

// Action is an optional remediation hint.
type Action struct {
	Type  ActionType `json:"type"`
	Label string     `json:"label,omitempty"`
	Goto  string     `json:"goto,omitempty"`
	Error string     `json:"error,omitempty"`
}

// GoToSettings returns the link action used by every credential error.
func GoToSettings() *Action {
	return &Action{Type: ActionLink, Label: "Go to settings", Goto: SettingsPath}
}

// MoreDetails returns an action carrying the raw error text.
func MoreDetails(raw string) *Action {
	return &Action{Type: ActionMoreDetails, Error: raw}
}
