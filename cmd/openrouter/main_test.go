package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI serves canned OpenRouter responses and records chat requests.
type fakeAPI struct {
	t        *testing.T
	requests []map[string]any
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/chat/completions":
		var body map[string]any
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		f.requests = append(f.requests, body)

		messages := body["messages"].([]any)
		last := messages[len(messages)-1].(map[string]any)["content"].(string)
		if body["stream"] == true {
			w.Header().Set("Content-Type", "text/event-stream")
			for _, part := range []string{"echo: ", last} {
				data, _ := json.Marshal(map[string]any{
					"id": "gen-s", "model": body["model"],
					"choices": []any{map[string]any{"index": 0, "delta": map[string]any{"content": part}}},
				})
				io.WriteString(w, "data: "+string(data)+"\n\n")
			}
			io.WriteString(w, "data: [DONE]\n\n")
			return
		}
		if last == "fail" {
			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":{"message":"bad prompt"}}`)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id": "gen-1", "object": "chat.completion", "created": 1, "model": body["model"],
			"choices": []any{map[string]any{
				"index":   0,
				"message": map[string]any{"role": "assistant", "content": "echo: " + last},
			}},
		})
	case "/models":
		io.WriteString(w, `{"data":[
			{"id":"openai/gpt-4o","name":"GPT-4o","context_length":128000,"pricing":{"prompt":"0.0000025","completion":"0.00001"}},
			{"id":"google/gemma:free","name":"Gemma","context_length":8192,"pricing":{"prompt":"0","completion":"0"}}
		]}`)
	case "/credits":
		io.WriteString(w, `{"data":{"total_credits":10,"total_usage":2.5}}`)
	default:
		http.NotFound(w, r)
	}
}

func setupCLI(t *testing.T) *fakeAPI {
	t.Helper()
	t.Chdir(t.TempDir())

	api := &fakeAPI{t: t}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	t.Setenv("OPENROUTER_API_KEY", "test-key")
	t.Setenv("OPENROUTER_BASE_URL", srv.URL)
	t.Setenv("OPENROUTER_MODEL", "openai/gpt-4o-mini")
	t.Setenv("OPENROUTER_LOG_LEVEL", "error")
	return api
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestChatCommand(t *testing.T) {
	api := setupCLI(t)

	out, err := run(t, "chat", "--system", "Be brief.", "--temperature", "0", "--max-tokens", "20", "Capital", "of", "France?")
	require.NoError(t, err)
	assert.Equal(t, "echo: Capital of France?\n", out)

	require.Len(t, api.requests, 1)
	body := api.requests[0]
	assert.Equal(t, "openai/gpt-4o-mini", body["model"])
	assert.Equal(t, float64(0), body["temperature"])
	assert.Equal(t, float64(20), body["max_tokens"])
	assert.Len(t, body["messages"], 2)
}

func TestChatCommandModelFlag(t *testing.T) {
	api := setupCLI(t)

	_, err := run(t, "chat", "--model", "anthropic/claude-3.5-sonnet", "hi")
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-3.5-sonnet", api.requests[0]["model"])
	assert.NotContains(t, api.requests[0], "temperature")
}

func TestChatCommandSession(t *testing.T) {
	api := setupCLI(t)
	path := filepath.Join(t.TempDir(), "session.yaml")

	_, err := run(t, "chat", "--session", path, "--system", "You are a tutor.", "first")
	require.NoError(t, err)
	out, err := run(t, "chat", "--session", path, "second")
	require.NoError(t, err)
	assert.Equal(t, "echo: second\n", out)

	require.Len(t, api.requests, 2)
	assert.Len(t, api.requests[1]["messages"], 4)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "message_count: 5")
}

func TestStreamCommand(t *testing.T) {
	setupCLI(t)

	out, err := run(t, "stream", "hello")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello\n", out)
}

func TestBatchCommand(t *testing.T) {
	setupCLI(t)
	require.NoError(t, os.WriteFile("prompts.txt", []byte("one\n\ntwo\nfail\n"), 0o600))

	out, err := run(t, "batch", "--concurrency", "2", "prompts.txt")
	require.EqualError(t, err, "1 of 3 requests failed")
	assert.Contains(t, out, "[1] one\necho: one\n")
	assert.Contains(t, out, "[2] two\necho: two\n")
	assert.Contains(t, out, "[3] fail\nerror: API error: bad prompt\n")
}

func TestModelsCommand(t *testing.T) {
	setupCLI(t)

	out, err := run(t, "models")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "openai/gpt-4o")
	assert.Contains(t, lines[1], "2.50")
	assert.Contains(t, lines[1], "10.00")

	out, err = run(t, "models", "--free", "--json")
	require.NoError(t, err)
	var models []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &models))
	require.Len(t, models, 1)
	assert.Equal(t, "google/gemma:free", models[0]["id"])
}

func TestBalanceCommand(t *testing.T) {
	setupCLI(t)

	out, err := run(t, "balance")
	require.NoError(t, err)
	assert.Equal(t, "Purchased: $10.0000\nUsed:      $2.5000\nBalance:   $7.5000\n", out)
}

func TestMissingAPIKey(t *testing.T) {
	setupCLI(t)
	t.Setenv("OPENROUTER_API_KEY", "")

	_, err := run(t, "balance")
	assert.EqualError(t, err, "OPENROUTER_API_KEY is required")
}
