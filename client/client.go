package client

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spetersoncode/openrouter"
	"github.com/spetersoncode/openrouter/internal/retry"
)

const (
	// DefaultBaseURL is the OpenRouter API root.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultTimeout bounds unary requests and the wait for streaming response headers.
	DefaultTimeout = 30 * time.Second

	// DefaultCompletionModel is used by Complete when no model is configured.
	DefaultCompletionModel = "anthropic/claude-3.5-sonnet"

	// APIKeyEnv is the environment variable consulted when Config.APIKey is empty.
	APIKeyEnv = "OPENROUTER_API_KEY"
)

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = openrouter.NewAuthenticationError(
	"API key is required: set "+APIKeyEnv+" or Config.APIKey", 0)

// Config holds configuration for creating a client.
type Config struct {
	// APIKey authenticates requests. Falls back to OPENROUTER_API_KEY.
	APIKey string

	// BaseURL overrides the API root. A trailing slash is ignored.
	BaseURL string

	// Timeout bounds unary requests and the wait for streaming response
	// headers. Defaults to 30 seconds.
	Timeout time.Duration

	// HTTPClient replaces the default HTTP client. The caller then owns its
	// transport timeouts and connection lifecycle.
	HTTPClient *http.Client

	// DefaultModel is used when a request does not set openrouter.WithModel.
	DefaultModel string

	// AppURL and AppName identify the calling application to OpenRouter
	// (sent as HTTP-Referer and X-Title) for attribution on its rankings.
	AppURL  string
	AppName string

	// RetryConfig configures retry behavior for transient errors.
	// If nil, uses default retry configuration (10 attempts with exponential backoff).
	RetryConfig *RetryConfig

	// Events is an optional channel for receiving client operation events.
	// Events are sent non-blocking; if the channel is full, events are dropped.
	Events chan<- Event

	// Logger receives debug and warning records. Nil disables logging.
	Logger *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDefaultTemperature sets the default temperature for chat requests.
// Per-request options override this default.
func WithDefaultTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, openrouter.WithTemperature(t))
	}
}

// WithDefaultMaxTokens sets the default max tokens for chat requests.
// Per-request options override this default.
func WithDefaultMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, openrouter.WithMaxTokens(n))
	}
}

// WithDefaultChatOptions sets default options for all chat requests.
// Per-request options override these defaults.
func WithDefaultChatOptions(opts ...openrouter.Option) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, opts...)
	}
}

// Client talks to the OpenRouter API. It is safe for concurrent use.
type Client struct {
	apiKey          string
	baseURL         string
	timeout         time.Duration
	httpClient      *http.Client
	ownsHTTPClient  bool
	defaultModel    string
	header          http.Header
	retryConfig     retry.Config
	events          chan<- Event
	logger          *slog.Logger
	defaultChatOpts []openrouter.Option
}

// New creates a client with the given configuration.
// It returns ErrMissingAPIKey when neither Config.APIKey nor
// OPENROUTER_API_KEY provides a key.
func New(cfg Config, opts ...ClientOption) (*Client, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnv)
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	retryConfig := retry.DefaultConfig()
	if cfg.RetryConfig != nil {
		retryConfig = *cfg.RetryConfig
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &Client{
		apiKey:       apiKey,
		baseURL:      baseURL,
		timeout:      timeout,
		httpClient:   cfg.HTTPClient,
		defaultModel: cfg.DefaultModel,
		header:       make(http.Header),
		retryConfig:  retryConfig,
		events:       cfg.Events,
		logger:       logger,
	}
	if c.httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.ResponseHeaderTimeout = timeout
		c.httpClient = &http.Client{Transport: transport}
		c.ownsHTTPClient = true
	}
	if cfg.AppURL != "" {
		c.header.Set("HTTP-Referer", cfg.AppURL)
	}
	if cfg.AppName != "" {
		c.header.Set("X-Title", cfg.AppName)
	}

	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases idle connections held by the client's own transport.
// A caller-supplied HTTPClient is left untouched.
func (c *Client) Close() {
	if c.ownsHTTPClient {
		c.httpClient.CloseIdleConnections()
	}
}

// BaseURL returns the API root the client sends requests to.
func (c *Client) BaseURL() string { return c.baseURL }

// resolve merges default and per-request options and picks the model.
func (c *Client) resolve(operation string, opts []openrouter.Option, fallbackModel string) (*openrouter.Options, error) {
	merged := make([]openrouter.Option, 0, len(c.defaultChatOpts)+len(opts))
	merged = append(merged, c.defaultChatOpts...)
	merged = append(merged, opts...)
	options := openrouter.ApplyOptions(merged...)

	if options.Model == "" {
		options.Model = c.defaultModel
	}
	if options.Model == "" {
		options.Model = fallbackModel
	}
	if options.Model == "" {
		return nil, &ErrNoModel{Operation: operation}
	}
	return options, nil
}

// Chat sends a conversation and returns a complete response.
// The model comes from openrouter.WithModel or Config.DefaultModel.
// Automatically retries on transient errors according to the client's retry configuration.
func (c *Client) Chat(ctx context.Context, messages []openrouter.Message, opts ...openrouter.Option) (*openrouter.ChatCompletion, error) {
	if len(messages) == 0 {
		return nil, openrouter.ErrEmptyInput
	}
	options, err := c.resolve("chat", opts, "")
	if err != nil {
		return nil, err
	}
	body := buildChatBody(messages, options, false)

	var resp *openrouter.ChatCompletion
	err = c.observe(ctx, "chat", options.Model, func() (*openrouter.Usage, error) {
		var err error
		resp, err = withRetry(ctx, c, "chat", options.Model, func() (*openrouter.ChatCompletion, error) {
			var out openrouter.ChatCompletion
			if err := c.doJSON(ctx, http.MethodPost, "/chat/completions", body, &out); err != nil {
				return nil, err
			}
			if out.Choices == nil {
				return nil, invalidResponse("missing field \"choices\"")
			}
			return &out, nil
		})
		if err != nil {
			return nil, err
		}
		return resp.Usage, nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Models lists the models available through the API.
func (c *Client) Models(ctx context.Context) (*openrouter.ModelList, error) {
	var list *openrouter.ModelList
	err := c.observe(ctx, "models", "", func() (*openrouter.Usage, error) {
		var err error
		list, err = withRetry(ctx, c, "models", "", func() (*openrouter.ModelList, error) {
			var out openrouter.ModelList
			if err := c.doJSON(ctx, http.MethodGet, "/models", nil, &out); err != nil {
				return nil, err
			}
			if out.Data == nil {
				return nil, invalidResponse("missing field \"data\"")
			}
			return &out, nil
		})
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Balance returns the account's purchased and consumed credits.
func (c *Client) Balance(ctx context.Context) (*openrouter.Credits, error) {
	var credits *openrouter.Credits
	err := c.observe(ctx, "credits", "", func() (*openrouter.Usage, error) {
		var err error
		credits, err = withRetry(ctx, c, "credits", "", func() (*openrouter.Credits, error) {
			var out struct {
				Data *openrouter.CreditsData `json:"data"`
			}
			if err := c.doJSON(ctx, http.MethodGet, "/credits", nil, &out); err != nil {
				return nil, err
			}
			if out.Data == nil {
				return nil, invalidResponse("missing field \"data\"")
			}
			return &openrouter.Credits{Data: *out.Data}, nil
		})
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return credits, nil
}

// Complete sends a single user prompt and returns the reply text.
// Without a configured model it uses DefaultCompletionModel. An empty
// completion yields "".
func (c *Client) Complete(ctx context.Context, prompt string, opts ...openrouter.Option) (string, error) {
	options, err := c.resolve("complete", opts, DefaultCompletionModel)
	if err != nil {
		return "", err
	}
	opts = append(opts[:len(opts):len(opts)], openrouter.WithModel(options.Model))
	resp, err := c.Chat(ctx, []openrouter.Message{openrouter.UserMessage(prompt)}, opts...)
	if err != nil {
		return "", err
	}
	return resp.Content(), nil
}

var _ openrouter.ChatProvider = (*Client)(nil)
