package httpclient

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	apperrors "github.com/kbukum/whispering/errors"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a request or connection timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a connection failure (refused, DNS, etc).
	ErrCodeConnection
	// ErrCodeAuth indicates an authentication/authorization failure (401/403).
	ErrCodeAuth
	// ErrCodeNotFound indicates the resource was not found (404).
	ErrCodeNotFound
	// ErrCodeRateLimit indicates rate limiting (429).
	ErrCodeRateLimit
	// ErrCodeValidation indicates any other 4xx response.
	ErrCodeValidation
	// ErrCodeServer indicates a server-side error (5xx).
	ErrCodeServer
	// ErrCodeCancelled indicates the caller cancelled the request.
	ErrCodeCancelled
	// ErrCodeResponseShape indicates a 2xx body that failed to decode or validate.
	ErrCodeResponseShape
	// ErrCodeRequest indicates the request could not be built.
	ErrCodeRequest
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeServer:
		return "server"
	case ErrCodeCancelled:
		return "cancelled"
	case ErrCodeResponseShape:
		return "response_shape"
	case ErrCodeRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Kind groups error codes into the four outcomes callers branch on.
type Kind string

const (
	KindNetwork       Kind = "network"
	KindHTTPStatus    Kind = "http_status"
	KindResponseShape Kind = "response_shape"
	KindCancelled     Kind = "cancelled"
	KindRequest       Kind = "request"
)

// Kind reports the outcome group of the error code.
func (c ErrorCode) Kind() Kind {
	switch c {
	case ErrCodeTimeout, ErrCodeConnection:
		return KindNetwork
	case ErrCodeAuth, ErrCodeNotFound, ErrCodeRateLimit, ErrCodeValidation, ErrCodeServer:
		return KindHTTPStatus
	case ErrCodeResponseShape:
		return KindResponseShape
	case ErrCodeCancelled:
		return KindCancelled
	default:
		return KindRequest
	}
}

// Error is a structured HTTP client error with classification.
type Error struct {
	// StatusCode is the HTTP status code (0 for connection-level errors).
	StatusCode int
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// Retryable indicates whether the operation can be retried.
	Retryable bool
	// Body is the original response body (may be nil).
	Body []byte
	// Issues lists structural mismatches for response shape errors.
	Issues []string
	// Wait is the server's Retry-After hint on 429 and 503 responses.
	Wait time.Duration
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// RetryAfter returns the server's requested wait before a retry, or zero.
func (e *Error) RetryAfter() time.Duration { return e.Wait }

// Kind reports the outcome group of the error.
func (e *Error) Kind() Kind {
	return e.Code.Kind()
}

// AppError maps the error into the canonical error shape, naming service as
// the remote party.
func (e *Error) AppError(service string) *apperrors.AppError {
	switch e.Kind() {
	case KindNetwork:
		return apperrors.Network(service, e)
	case KindHTTPStatus:
		appErr := apperrors.HTTPStatus(service, e.StatusCode, string(e.Body)).WithCause(e)
		if e.Wait > 0 {
			appErr.WithDetail("retry_after_seconds", int(e.Wait.Seconds()))
		}
		return appErr
	case KindResponseShape:
		return apperrors.ResponseShape(service, e.Issues).WithCause(e)
	case KindCancelled:
		return apperrors.Cancelled().WithCause(e)
	default:
		return apperrors.Internal(e)
	}
}

// ToAppError maps any error returned by the adapter into the canonical shape.
// AppErrors pass through unchanged.
func ToAppError(service string, err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	var e *Error
	if errors.As(err, &e) {
		return e.AppError(service)
	}
	return apperrors.Internal(err)
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{
		Code:      ErrCodeTimeout,
		Message:   err.Error(),
		Retryable: true,
		Err:       err,
	}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{
		Code:      ErrCodeConnection,
		Message:   err.Error(),
		Retryable: true,
		Err:       err,
	}
}

// NewCancelledError creates a cancellation error.
func NewCancelledError(err error) *Error {
	return &Error{
		Code:    ErrCodeCancelled,
		Message: err.Error(),
		Err:     err,
	}
}

// NewResponseShapeError creates an error for a 2xx body that did not match
// the expected shape.
func NewResponseShapeError(statusCode int, body []byte, issues []string) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeResponseShape,
		Message:    fmt.Sprintf("unexpected response shape: %v", issues),
		Body:       body,
		Issues:     issues,
	}
}

// NewRequestError creates an error for a request that could not be built.
func NewRequestError(msg string) *Error {
	return &Error{
		Code:    ErrCodeRequest,
		Message: msg,
	}
}

// ClassifyStatusCode converts an HTTP status code into a typed error.
// Returns nil for 2xx status codes.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	e := &Error{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("HTTP %d", statusCode),
		Body:       body,
	}
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == 401 || statusCode == 403:
		e.Code = ErrCodeAuth
	case statusCode == 404:
		e.Code = ErrCodeNotFound
	case statusCode == 429:
		e.Code, e.Retryable = ErrCodeRateLimit, true
	case statusCode >= 400 && statusCode < 500:
		e.Code = ErrCodeValidation
	case statusCode >= 500:
		e.Code, e.Retryable = ErrCodeServer, true
	default:
		e.Code = ErrCodeServer
	}
	return e
}

// parseRetryAfter reads a Retry-After header given in seconds. HTTP-date
// values are ignored.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsCancelled checks if an error is a cancellation error.
func IsCancelled(err error) bool { return hasCode(err, ErrCodeCancelled) }

// IsResponseShape checks if an error is a response shape error.
func IsResponseShape(err error) bool { return hasCode(err, ErrCodeResponseShape) }

// IsAuth checks if an error is an authentication error.
func IsAuth(err error) bool { return hasCode(err, ErrCodeAuth) }

// IsRateLimit checks if an error is a rate-limit error.
func IsRateLimit(err error) bool { return hasCode(err, ErrCodeRateLimit) }

// IsServerError checks if an error is a server error.
func IsServerError(err error) bool { return hasCode(err, ErrCodeServer) }

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
