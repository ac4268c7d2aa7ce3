// Package retry provides retry logic with exponential backoff for transient errors.
package retry

import (
	"math"
	"math/rand/v2"
	"time"
)

// Config controls how often and how patiently a request is retried.
type Config struct {
	// MaxAttempts counts the initial request. Zero or less means one attempt.
	MaxAttempts int

	// InitialDelay, Multiplier and MaxDelay shape the exponential backoff:
	// min(MaxDelay, InitialDelay * Multiplier^n) before retry n+1.
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64

	// Jitter scales each backoff by a random factor in [1-Jitter, 1+Jitter].
	Jitter float64

	// MaxRetryAfter caps a server-suggested Retry-After wait. OpenRouter can
	// answer a free-tier 429 with a delay of many minutes; a longer hint is
	// clamped here. Zero leaves the hint unbounded.
	MaxRetryAfter time.Duration
}

// DefaultConfig returns the policy used by the client when none is set:
// 10 attempts, 1s doubling to at most 60s, 10% jitter, Retry-After honored
// up to 2 minutes.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   10,
		InitialDelay:  time.Second,
		MaxDelay:      time.Minute,
		Multiplier:    2,
		Jitter:        0.1,
		MaxRetryAfter: 2 * time.Minute,
	}
}

// Disabled returns a policy that makes a single attempt.
func Disabled() Config {
	return Config{MaxAttempts: 1}
}

// Delay returns the backoff before retry n+1, where n counts failures from 0.
func (c Config) Delay(n int) time.Duration {
	return c.jitter(c.backoff(n))
}

// Wait returns how long to sleep after the failure err on attempt n (from 0).
// A Retry-After hint carried by err wins over a shorter backoff, clamped to
// MaxRetryAfter.
func (c Config) Wait(n int, err error) time.Duration {
	delay := c.Delay(n)
	hint := retryAfterFromError(err)
	if c.MaxRetryAfter > 0 && hint > c.MaxRetryAfter {
		hint = c.MaxRetryAfter
	}
	return max(delay, hint)
}

func (c Config) backoff(n int) float64 {
	n = max(n, 0)
	d := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(n))
	return math.Min(d, float64(c.MaxDelay))
}

func (c Config) jitter(d float64) time.Duration {
	if c.Jitter > 0 {
		d *= 1 + c.Jitter*(2*rand.Float64()-1)
	}
	return time.Duration(d)
}

// attempts returns MaxAttempts, treating zero or negative as a single attempt.
func (c Config) attempts() int {
	return max(c.MaxAttempts, 1)
}
