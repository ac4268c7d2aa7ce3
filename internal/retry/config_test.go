package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/spetersoncode/openrouter"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 10, cfg.attempts())
	assert.Equal(t, time.Second, cfg.Delay(0).Round(time.Second))
	assert.Equal(t, 2*time.Minute, cfg.MaxRetryAfter)
	assert.Equal(t, 1, Disabled().attempts())
}

func TestConfigDelay(t *testing.T) {
	cfg := Config{InitialDelay: 250 * time.Millisecond, MaxDelay: 3 * time.Second, Multiplier: 2}

	tests := []struct {
		n    int
		want time.Duration
	}{
		{-1, 250 * time.Millisecond},
		{0, 250 * time.Millisecond},
		{1, 500 * time.Millisecond},
		{3, 2 * time.Second},
		{4, 3 * time.Second},
		{30, 3 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cfg.Delay(tt.n), "n=%d", tt.n)
	}
}

func TestConfigDelayJitterBounds(t *testing.T) {
	cfg := Config{InitialDelay: time.Second, MaxDelay: time.Minute, Multiplier: 2, Jitter: 0.1}

	seen := map[time.Duration]bool{}
	for range 100 {
		d := cfg.Delay(1)
		assert.GreaterOrEqual(t, d, 1800*time.Millisecond)
		assert.LessOrEqual(t, d, 2200*time.Millisecond)
		seen[d] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestConfigWait(t *testing.T) {
	cfg := Config{
		InitialDelay:  time.Second,
		MaxDelay:      8 * time.Second,
		Multiplier:    2,
		MaxRetryAfter: time.Minute,
	}

	tests := []struct {
		name string
		n    int
		err  error
		want time.Duration
	}{
		{"rate limit asks for longer than backoff", 0, openrouter.NewRateLimitError("rate limit exceeded", 20*time.Second), 20 * time.Second},
		{"rate limit asks for shorter than backoff", 2, openrouter.NewRateLimitError("rate limit exceeded", time.Second), 4 * time.Second},
		{"free tier hint is clamped", 0, openrouter.NewRateLimitError("rate limit exceeded", 15*time.Minute), time.Minute},
		{"rate limit without header", 1, openrouter.NewRateLimitError("rate limit exceeded", 0), 2 * time.Second},
		{"server error has no hint", 1, openrouter.NewAPIError("API error: upstream unavailable", 503), 2 * time.Second},
		{"transport error", 0, errors.New("connection reset by peer"), time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.Wait(tt.n, tt.err))
		})
	}
}

func TestConfigWaitUnboundedRetryAfter(t *testing.T) {
	cfg := Config{InitialDelay: time.Second, MaxDelay: time.Second, Multiplier: 2}
	err := openrouter.NewRateLimitError("rate limit exceeded", 10*time.Minute)

	assert.Equal(t, 10*time.Minute, cfg.Wait(0, err))
}

func TestConfigAttempts(t *testing.T) {
	assert.Equal(t, 1, Config{}.attempts())
	assert.Equal(t, 1, Config{MaxAttempts: -3}.attempts())
	assert.Equal(t, 4, Config{MaxAttempts: 4}.attempts())
}
