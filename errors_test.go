package openrouter

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrEmptyInput(t *testing.T) {
	t.Run("is a sentinel error", func(t *testing.T) {
		assert.Error(t, ErrEmptyInput)
		assert.Equal(t, "empty input", ErrEmptyInput.Error())
	})

	t.Run("can be compared with errors.Is", func(t *testing.T) {
		err := fmt.Errorf("chat: %w", ErrEmptyInput)
		assert.True(t, errors.Is(err, ErrEmptyInput))
	})
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      NewAuthenticationError("invalid API key", 401),
			expected: "invalid API key",
		},
		{
			name:     "message with cause",
			err:      NewRequestError("request failed", errors.New("connection refused")),
			expected: "request failed: connection refused",
		},
		{
			name:     "validation with cause",
			err:      NewValidationError("invalid response data", errors.New("unexpected end of JSON input")),
			expected: "invalid response data: unexpected end of JSON input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"authentication", NewAuthenticationError("invalid API key", 401), ErrAuthentication},
		{"rate limit", NewRateLimitError("rate limit exceeded", 0), ErrRateLimit},
		{"validation", NewValidationError("invalid response data", nil), ErrValidation},
		{"api", NewAPIError("API error: boom", 500), ErrAPI},
		{"generic", NewRequestError("request failed", errors.New("eof")), ErrGeneric},
	}

	all := []error{ErrGeneric, ErrAuthentication, ErrRateLimit, ErrValidation, ErrAPI}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("operation: %w", tt.err)
			for _, sentinel := range all {
				assert.Equal(t, sentinel == tt.sentinel, errors.Is(wrapped, sentinel), "sentinel %v", sentinel)
			}
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewRequestError("request failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
	assert.Nil(t, NewAPIError("API error: x", 500).Unwrap())
}

func TestErrorConstructors(t *testing.T) {
	t.Run("authentication is permanent", func(t *testing.T) {
		err := NewAuthenticationError("invalid API key", 401)
		assert.Equal(t, KindAuthentication, err.Kind)
		assert.Equal(t, ErrorPermanent, err.Category())
		assert.False(t, err.Retryable())
		assert.Equal(t, 401, err.StatusCode())
	})

	t.Run("rate limit is transient with delay", func(t *testing.T) {
		err := NewRateLimitError("rate limit exceeded", 30*time.Second)
		assert.Equal(t, KindRateLimit, err.Kind)
		assert.True(t, err.Retryable())
		assert.Equal(t, http.StatusTooManyRequests, err.StatusCode())
		assert.Equal(t, 30*time.Second, err.RetryAfter())
	})

	t.Run("validation is permanent without code", func(t *testing.T) {
		err := NewValidationError("invalid response data", nil)
		assert.Equal(t, ErrorPermanent, err.Category())
		assert.Zero(t, err.StatusCode())
	})

	t.Run("api category follows status code", func(t *testing.T) {
		assert.Equal(t, ErrorTransient, NewAPIError("x", 503).Category())
		assert.Equal(t, ErrorUserInput, NewAPIError("x", 404).Category())
		assert.Equal(t, ErrorPermanent, NewAPIError("x", 402).Category())
	})

	t.Run("request error has no category", func(t *testing.T) {
		err := NewRequestError("request failed", errors.New("reset"))
		assert.Empty(t, err.Category())
		assert.False(t, err.Retryable())
	})
}

func TestCategorizeStatusCode(t *testing.T) {
	tests := []struct {
		code     int
		expected ErrorCategory
	}{
		{http.StatusTooManyRequests, ErrorTransient},
		{http.StatusInternalServerError, ErrorTransient},
		{http.StatusBadGateway, ErrorTransient},
		{http.StatusServiceUnavailable, ErrorTransient},
		{http.StatusUnauthorized, ErrorPermanent},
		{http.StatusForbidden, ErrorPermanent},
		{http.StatusBadRequest, ErrorUserInput},
		{http.StatusNotFound, ErrorUserInput},
		{http.StatusUnprocessableEntity, ErrorUserInput},
		{http.StatusPaymentRequired, ErrorPermanent},
		{http.StatusConflict, ErrorPermanent},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeStatusCode(tt.code))
		})
	}
}

func TestCategoryHelpers(t *testing.T) {
	transient := fmt.Errorf("wrapped: %w", NewRateLimitError("rate limit exceeded", 5*time.Second))
	permanent := NewAuthenticationError("invalid API key", 401)
	userInput := NewAPIError("API error: bad model", 400)
	plain := errors.New("plain")

	assert.True(t, IsTransient(transient))
	assert.False(t, IsTransient(permanent))
	assert.False(t, IsTransient(plain))

	assert.True(t, IsPermanent(permanent))
	assert.False(t, IsPermanent(userInput))

	assert.True(t, IsUserInput(userInput))
	assert.False(t, IsUserInput(plain))

	assert.Equal(t, 429, StatusCodeOf(transient))
	assert.Equal(t, 0, StatusCodeOf(plain))
	assert.Equal(t, 5*time.Second, RetryAfterOf(transient))
	assert.Equal(t, time.Duration(0), RetryAfterOf(plain))

	assert.Equal(t, KindRateLimit, KindOf(transient))
	assert.Equal(t, ErrorKind(""), KindOf(plain))
}
