package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test from an empty directory so no .env file is picked up
// and clears the variables Load reads.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"OPENROUTER_API_KEY", "OPENROUTER_BASE_URL", "OPENROUTER_MODEL",
		"OPENROUTER_TIMEOUT", "OPENROUTER_LOG_LEVEL", "OPENROUTER_APP_NAME",
		"OPENROUTER_APP_URL", "OPENROUTER_METRICS_ADDR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg := Load()
	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoadFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("OPENROUTER_API_KEY", "sk-or-test")
	t.Setenv("OPENROUTER_MODEL", "openai/gpt-4o-mini")
	t.Setenv("OPENROUTER_TIMEOUT", "45s")
	t.Setenv("OPENROUTER_LOG_LEVEL", "DEBUG")
	t.Setenv("OPENROUTER_APP_NAME", "cli")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sk-or-test", cfg.APIKey)
	assert.Equal(t, 45*time.Second, cfg.Timeout)

	cc := cfg.Client(nil, nil)
	assert.Equal(t, "openai/gpt-4o-mini", cc.DefaultModel)
	assert.Equal(t, "cli", cc.AppName)
	assert.Equal(t, 45*time.Second, cc.Timeout)
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	os.Unsetenv("OPENROUTER_API_KEY")
	require.NoError(t, os.WriteFile(".env", []byte("OPENROUTER_API_KEY=from-dotenv\n"), 0o600))

	cfg := Load()
	assert.Equal(t, "from-dotenv", cfg.APIKey)
	os.Unsetenv("OPENROUTER_API_KEY")
}

func TestLoadIgnoresBadTimeout(t *testing.T) {
	isolate(t)
	t.Setenv("OPENROUTER_TIMEOUT", "soon")

	assert.Equal(t, 30*time.Second, Load().Timeout)
}

func TestValidate(t *testing.T) {
	valid := Config{APIKey: "k", Timeout: time.Second, LogLevel: "info"}
	require.NoError(t, valid.Validate())

	noKey := valid
	noKey.APIKey = ""
	assert.ErrorContains(t, noKey.Validate(), "OPENROUTER_API_KEY is required")

	badTimeout := valid
	badTimeout.Timeout = 0
	assert.ErrorContains(t, badTimeout.Validate(), "OPENROUTER_TIMEOUT")

	badLevel := valid
	badLevel.LogLevel = "verbose"
	assert.ErrorContains(t, badLevel.Validate(), "unknown level")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
