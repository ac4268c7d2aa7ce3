package openrouter

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrEmptyInput is returned when a required input slice is empty.
var ErrEmptyInput = errors.New("empty input")

// ErrorKind identifies what went wrong.
type ErrorKind string

const (
	// KindGeneric covers transport failures and anything not classified below.
	KindGeneric ErrorKind = "generic"

	// KindAuthentication indicates a missing or rejected API key.
	KindAuthentication ErrorKind = "authentication"

	// KindRateLimit indicates the server throttled the request.
	KindRateLimit ErrorKind = "rate_limit"

	// KindValidation indicates a response body that does not match the expected record.
	KindValidation ErrorKind = "validation"

	// KindAPI indicates any other error status returned by the server.
	KindAPI ErrorKind = "api"
)

// Sentinels for errors.Is. An *Error matches the sentinel of its kind.
var (
	ErrGeneric        = errors.New("openrouter error")
	ErrAuthentication = errors.New("authentication error")
	ErrRateLimit      = errors.New("rate limit error")
	ErrValidation     = errors.New("validation error")
	ErrAPI            = errors.New("api error")
)

var kindSentinels = map[ErrorKind]error{
	KindGeneric:        ErrGeneric,
	KindAuthentication: ErrAuthentication,
	KindRateLimit:      ErrRateLimit,
	KindValidation:     ErrValidation,
	KindAPI:            ErrAPI,
}

// ErrorCategory classifies errors by how they should be handled.
type ErrorCategory string

const (
	// ErrorTransient indicates the error is temporary and the operation can be retried.
	// Examples: rate limits, server overload.
	ErrorTransient ErrorCategory = "transient"

	// ErrorPermanent indicates the error is not recoverable through retry.
	// Examples: invalid API key, insufficient permissions, malformed response.
	ErrorPermanent ErrorCategory = "permanent"

	// ErrorUserInput indicates the caller sent a request that must be corrected.
	// Examples: unknown model, invalid parameters.
	ErrorUserInput ErrorCategory = "user_input"
)

// CategorizedError is an error that provides information about how it should be handled.
type CategorizedError interface {
	error
	Category() ErrorCategory
	Retryable() bool           // convenience: returns true if Category == ErrorTransient
	StatusCode() int           // HTTP status code if applicable, 0 otherwise
	RetryAfter() time.Duration // suggested retry delay from server, 0 if not available
}

// Error is the error type returned by API operations.
type Error struct {
	Kind       ErrorKind
	Msg        string
	Cat        ErrorCategory // empty when the category is unknown (transport failures)
	Code       int           // HTTP status code, 0 if not applicable
	RetryDelay time.Duration // from Retry-After header, 0 if not available
	Cause      error         // underlying error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// Category returns the error category.
func (e *Error) Category() ErrorCategory {
	return e.Cat
}

// Retryable returns true if the error is transient and can be retried.
func (e *Error) Retryable() bool {
	return e.Cat == ErrorTransient
}

// StatusCode returns the HTTP status code, or 0 if not applicable.
func (e *Error) StatusCode() int {
	return e.Code
}

// RetryAfter returns the suggested retry delay, or 0 if not available.
func (e *Error) RetryAfter() time.Duration {
	return e.RetryDelay
}

// NewAuthenticationError creates an error for a missing or rejected API key.
func NewAuthenticationError(msg string, statusCode int) *Error {
	return &Error{Kind: KindAuthentication, Msg: msg, Cat: ErrorPermanent, Code: statusCode}
}

// NewRateLimitError creates a rate limit error with an optional server-suggested delay.
func NewRateLimitError(msg string, retryAfter time.Duration) *Error {
	return &Error{
		Kind:       KindRateLimit,
		Msg:        msg,
		Cat:        ErrorTransient,
		Code:       http.StatusTooManyRequests,
		RetryDelay: retryAfter,
	}
}

// NewValidationError creates an error for a response that failed to decode.
func NewValidationError(msg string, cause error) *Error {
	return &Error{Kind: KindValidation, Msg: msg, Cat: ErrorPermanent, Cause: cause}
}

// NewAPIError creates an error for an error status returned by the server.
// The category is derived from the status code.
func NewAPIError(msg string, statusCode int) *Error {
	return &Error{Kind: KindAPI, Msg: msg, Cat: CategorizeStatusCode(statusCode), Code: statusCode}
}

// NewRequestError creates an error for a request that never produced a response.
// Its category is left empty so retry heuristics inspect the cause.
func NewRequestError(msg string, cause error) *Error {
	return &Error{Kind: KindGeneric, Msg: msg, Cause: cause}
}

// CategorizeStatusCode determines the error category from an HTTP status code.
func CategorizeStatusCode(code int) ErrorCategory {
	switch {
	case code == http.StatusTooManyRequests:
		return ErrorTransient
	case code >= 500 && code < 600:
		return ErrorTransient
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return ErrorPermanent
	case code == http.StatusBadRequest || code == http.StatusNotFound || code == http.StatusUnprocessableEntity:
		return ErrorUserInput
	default:
		return ErrorPermanent
	}
}

// KindOf returns the kind of an *Error in err's chain, or "" if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsTransient returns true if the error is categorized as transient.
// It checks if the error or any wrapped error implements CategorizedError.
func IsTransient(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorTransient
	}
	return false
}

// IsPermanent returns true if the error is categorized as permanent.
func IsPermanent(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorPermanent
	}
	return false
}

// IsUserInput returns true if the error is categorized as user input error.
func IsUserInput(err error) bool {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category() == ErrorUserInput
	}
	return false
}

// StatusCodeOf returns the HTTP status code from a categorized error, or 0.
func StatusCodeOf(err error) int {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.StatusCode()
	}
	return 0
}

// RetryAfterOf returns the retry delay from a categorized error, or 0.
func RetryAfterOf(err error) time.Duration {
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.RetryAfter()
	}
	return 0
}
