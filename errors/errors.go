package errors

import (
	"fmt"
	"net/http"
)

// StatusClientClosedRequest is reported for cancelled operations.
const StatusClientClosedRequest = 499

// AppError is the canonical error shape shared by every layer.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Title is a short human-readable summary.
	Title string `json:"title"`
	// Description is the longer human-readable explanation.
	Description string `json:"description"`
	// Action is an optional remediation hint.
	Action *Action `json:"action,omitempty"`
	// Stage names the failing step, when the error comes out of a transcription call.
	Stage Stage `json:"stage,omitempty"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Title)
	if e.Description != "" {
		msg += ": " + e.Description
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithAction sets the remediation hint and returns the receiver.
func (e *AppError) WithAction(action *Action) *AppError {
	e.Action = action
	return e
}

// WithStage tags the failing stage and returns the receiver.
func (e *AppError) WithStage(stage Stage) *AppError {
	e.Stage = stage
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, title string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Title:      title,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Precondition errors ---

// MissingCredential reports that the provider requires an API key that is not configured.
func MissingCredential(provider string) *AppError {
	return &AppError{
		Code: ErrCodeMissingCredential, Title: fmt.Sprintf("%s API Key not provided.", provider),
		Description: fmt.Sprintf("Please enter your %s API key in the settings.", provider),
		Action:      GoToSettings(), HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{"provider": provider},
	}
}

// InvalidCredential reports an API key that does not start with the provider's prefix.
func InvalidCredential(provider, prefix string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidCredential, Title: fmt.Sprintf("Invalid %s API Key", provider),
		Description: fmt.Sprintf("The %s API Key must start with '%s'.", provider, prefix),
		Action:      GoToSettings(), HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{"provider": provider, "prefix": prefix},
	}
}

// PayloadTooLarge reports audio larger than the provider accepts.
func PayloadTooLarge(sizeMB float64, limitMB int) *AppError {
	return &AppError{
		Code: ErrCodePayloadTooLarge, Title: fmt.Sprintf("The file size (%.1fMB) is too large", sizeMB),
		Description: fmt.Sprintf("Please upload a file smaller than %dMB.", limitMB),
		HTTPStatus:  http.StatusRequestEntityTooLarge,
		Details:     map[string]any{"size_mb": sizeMB, "limit_mb": limitMB},
	}
}

// --- Transport and provider errors ---

// Network reports a request that never produced a response.
func Network(service string, cause error) *AppError {
	e := &AppError{
		Code: ErrCodeNetwork, Title: fmt.Sprintf("Could not reach %s", service),
		Description: "The request did not produce a response. Check your connection and the service address.",
		HTTPStatus:  http.StatusBadGateway, Retryable: true, Cause: cause,
		Details: map[string]any{"service": service},
	}
	if cause != nil {
		e.Action = MoreDetails(cause.Error())
	}
	return e
}

// HTTPStatus reports a non-2xx response. The raw body text is kept for diagnosis.
func HTTPStatus(service string, status int, body string) *AppError {
	return &AppError{
		Code: ErrCodeHTTPStatus, Title: fmt.Sprintf("%s request failed with status %d", service, status),
		Description: fmt.Sprintf("%s rejected the request. See details for the response body.", service),
		Action:      MoreDetails(body), HTTPStatus: http.StatusBadGateway,
		Retryable: status == http.StatusTooManyRequests || status >= 500,
		Details:   map[string]any{"service": service, "status": status, "body": body},
	}
}

// ProviderReported reports a successful response that carries the provider's own error payload.
func ProviderReported(service, message string) *AppError {
	return &AppError{
		Code: ErrCodeProviderReported, Title: fmt.Sprintf("Server error from %s", service),
		Description: fmt.Sprintf("This is likely a problem with %s, not you.", service),
		Action:      MoreDetails(message), HTTPStatus: http.StatusBadGateway,
		Details: map[string]any{"service": service, "message": message},
	}
}

// ResponseShape reports a successful response that matches no expected shape.
func ResponseShape(service string, issues []string) *AppError {
	return &AppError{
		Code: ErrCodeResponseShape, Title: fmt.Sprintf("Unexpected response from %s", service),
		Description: "The response did not match any expected shape.",
		HTTPStatus:  http.StatusBadGateway,
		Details:     map[string]any{"service": service, "issues": issues},
	}
}

// Cancelled reports an operation aborted by the caller.
func Cancelled() *AppError {
	return &AppError{
		Code: ErrCodeCancelled, Title: "Operation cancelled",
		Description: "The request was cancelled before it completed.",
		HTTPStatus:  StatusClientClosedRequest,
	}
}

// CleanupFailed reports a cleanup failure after a successful transcription.
// The raw transcript is kept in Details["transcript"].
func CleanupFailed(cause *AppError, transcript string) *AppError {
	reason := "unknown error"
	if cause != nil {
		reason = cause.Title
	}
	e := &AppError{
		Code: ErrCodeCleanupFailed, Title: "Cleanup failed",
		Description: fmt.Sprintf("The transcription succeeded, but the cleanup step failed (%s). The raw transcript is still available.", reason),
		Stage:       StageCleanup, HTTPStatus: http.StatusBadGateway,
		Details: map[string]any{"transcript": transcript},
	}
	if cause != nil {
		e.Cause = cause
		e.Action = cause.Action
	}
	return e
}

// --- Input and internal errors ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Title: "Invalid input", Description: reason,
		HTTPStatus: http.StatusBadRequest, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Title: "Validation failed", Description: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// Internal creates a new AppError for a programming fault.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Title: "An unexpected error occurred",
		Description: "Please try again or report the problem.",
		HTTPStatus:  http.StatusInternalServerError, Cause: cause,
	}
}
