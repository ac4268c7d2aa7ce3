package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/spetersoncode/openrouter"
)

// maxErrorBodyBytes caps how much of an error response body is read.
const maxErrorBodyBytes = 1 << 20

// buildChatBody assembles the chat completion request body. Extra fields are
// arbitrary body fields: they are applied after model and messages and so
// replace them when named "model" or "messages". The typed sampling options
// and the stream flag are applied last and win over an extra of the same name.
func buildChatBody(messages []openrouter.Message, options *openrouter.Options, stream bool) map[string]any {
	body := map[string]any{
		"model":    options.Model,
		"messages": messages,
	}
	for k, v := range options.Extra {
		body[k] = v
	}
	if options.MaxTokens > 0 {
		body["max_tokens"] = options.MaxTokens
	}
	if options.Temperature != nil {
		body["temperature"] = *options.Temperature
	}
	if options.TopP != nil {
		body["top_p"] = *options.TopP
	}
	if len(options.Stop) > 0 {
		body["stop"] = options.Stop
	}
	if stream {
		body["stream"] = true
	}
	return body
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	for k, v := range c.header {
		req.Header[k] = v
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// send performs req and maps transport failures and error statuses to
// *openrouter.Error. On success the caller owns the response body.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, openrouter.NewRequestError("request failed", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		defer resp.Body.Close()
		return nil, errorFromResponse(resp)
	}
	return resp, nil
}

// doJSON performs a unary request bounded by the client timeout and decodes
// the JSON response into out.
func (c *Client) doJSON(parent context.Context, method, endpoint string, body, out any) error {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	req, err := c.newRequest(ctx, method, endpoint, body)
	if err != nil {
		return openrouter.NewRequestError("request failed", err)
	}

	resp, err := c.send(req)
	if err != nil {
		return c.timeoutError(parent, ctx, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.timeoutError(parent, ctx, openrouter.NewRequestError("request failed", err))
	}

	// Upstream provider failures can arrive as an error envelope with a 200 status.
	if apiErr := errorFromEnvelope(data); apiErr != nil {
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return openrouter.NewValidationError("invalid response data", err)
	}
	return nil
}

// errRequestTimeout marks a request that outlived the client timeout while
// the caller's context was still live. Unlike a caller deadline it is retried.
var errRequestTimeout = errors.New("request timeout")

// timeoutError replaces err when the per-request timeout, not the caller,
// ended the request.
func (c *Client) timeoutError(parent, ctx context.Context, err error) error {
	if parent.Err() == nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return openrouter.NewRequestError("request failed",
			fmt.Errorf("no response within %s: %w", c.timeout, errRequestTimeout))
	}
	return err
}

// errorBody is the error envelope the API returns: {"error": {...}}.
type errorBody struct {
	Error *struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
	} `json:"error"`
}

// errorFromEnvelope returns an API error when data is an error envelope, else nil.
func errorFromEnvelope(data []byte) error {
	var env errorBody
	if err := json.Unmarshal(data, &env); err != nil || env.Error == nil {
		return nil
	}
	code, _ := strconv.Atoi(strings.Trim(string(env.Error.Code), `"`))
	if code == 0 {
		code = http.StatusBadGateway
	}
	msg := env.Error.Message
	if msg == "" {
		msg = http.StatusText(code)
	}
	return errorForStatus(code, msg, 0)
}

// errorFromResponse maps an error status response to an *openrouter.Error.
func errorFromResponse(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	return errorForStatus(resp.StatusCode, errorDetail(resp.StatusCode, data), parseRetryAfter(resp.Header))
}

func errorForStatus(code int, detail string, retryAfter time.Duration) error {
	switch code {
	case http.StatusUnauthorized:
		return openrouter.NewAuthenticationError("invalid API key", code)
	case http.StatusTooManyRequests:
		return openrouter.NewRateLimitError("rate limit exceeded", retryAfter)
	default:
		return openrouter.NewAPIError("API error: "+detail, code)
	}
}

// errorDetail prefers error.message from a JSON body and falls back to the raw text.
func errorDetail(code int, body []byte) string {
	var env errorBody
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil && env.Error.Message != "" {
		return env.Error.Message
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(code)
}

// parseRetryAfter extracts the Retry-After duration from response headers.
// Returns 0 if the header is not present or cannot be parsed.
func parseRetryAfter(h http.Header) time.Duration {
	header := h.Get("Retry-After")
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
