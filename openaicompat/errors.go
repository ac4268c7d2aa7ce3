package openaicompat

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/openai/openai-go"

	"github.com/spetersoncode/openrouter"
)

// ErrNoModel is returned when neither the request nor the client names a model.
var ErrNoModel = errors.New("no model specified: use WithModel or openrouter.WithModel()")

// wrapError maps an SDK error onto the openrouter error kinds.
// It extracts status codes and Retry-After headers for proper retry handling.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return openrouter.NewRequestError("request failed", err)
	}

	var wrapped *openrouter.Error
	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		wrapped = openrouter.NewAuthenticationError("invalid API key", apiErr.StatusCode)
	case http.StatusTooManyRequests:
		wrapped = openrouter.NewRateLimitError("rate limit exceeded", parseRetryAfter(apiErr.Response))
	default:
		detail := apiErr.Message
		if detail == "" {
			detail = http.StatusText(apiErr.StatusCode)
		}
		wrapped = openrouter.NewAPIError("API error: "+detail, apiErr.StatusCode)
	}
	wrapped.Cause = err
	return wrapped
}

// parseRetryAfter extracts the Retry-After duration from an HTTP response.
// Returns 0 if the header is not present or cannot be parsed.
func parseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}

	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		if delay := time.Until(t); delay > 0 {
			return delay
		}
	}

	return 0
}
