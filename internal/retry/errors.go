package retry

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/spetersoncode/openrouter"
)

// IsTransient determines if an error is transient and should be retried.
// An openrouter.CategorizedError with a category decides on its own. Errors
// without a category (transport failures) fall back to heuristics:
//   - network timeouts
//   - connection resets and refusals
//   - temporary DNS failures
//   - well-known transient messages
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var ce openrouter.CategorizedError
	if errors.As(err, &ce) && ce.Category() != "" {
		return ce.Category() == openrouter.ErrorTransient
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if code := openrouter.StatusCodeOf(err); code > 0 {
		return isTransientStatusCode(code)
	}

	return isTransientNetworkError(err)
}

// isTransientStatusCode checks if an HTTP status code indicates a transient error.
func isTransientStatusCode(code int) bool {
	return code == 429 || (code >= 500 && code < 600)
}

// isTransientNetworkError checks for network-level transient errors.
func isTransientNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return true
		}
		if urlErr.Err != nil && isTransientNetworkError(urlErr.Err) {
			return true
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.IsTemporary || dnsErr.IsTimeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ETIMEDOUT:
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

var transientPatterns = []string{
	"connection reset",
	"connection refused",
	"timeout",
	"temporary failure",
	"service unavailable",
	"too many requests",
	"unexpected eof",
	"bad gateway",
	"gateway timeout",
}

// retryAfterFromError extracts the server-suggested delay from err, or 0.
func retryAfterFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	return openrouter.RetryAfterOf(err)
}
