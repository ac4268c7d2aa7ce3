package openaicompat

import (
	"context"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/spetersoncode/openrouter"
)

// DefaultBaseURL is the OpenRouter API root.
const DefaultBaseURL = "https://openrouter.ai/api/v1/"

// Client wraps the OpenAI SDK to implement openrouter.ChatProvider.
type Client struct {
	client *openai.Client
	model  string
}

type config struct {
	baseURL    string
	model      string
	httpClient *http.Client
	maxRetries int
	headers    map[string]string
}

// ClientOption configures the client.
type ClientOption func(*config)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *config) { c.model = model }
}

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(url string) ClientOption {
	return func(c *config) { c.baseURL = url }
}

// WithHTTPClient sets the HTTP client used by the SDK.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *config) { c.httpClient = hc }
}

// WithMaxRetries sets how many times the SDK retries a failed request.
func WithMaxRetries(n int) ClientOption {
	return func(c *config) { c.maxRetries = n }
}

// WithApp identifies the calling application (HTTP-Referer and X-Title).
func WithApp(url, name string) ClientOption {
	return func(c *config) {
		if url != "" {
			c.headers["HTTP-Referer"] = url
		}
		if name != "" {
			c.headers["X-Title"] = name
		}
	}
}

// New creates a client authenticating with apiKey.
func New(apiKey string, opts ...ClientOption) *Client {
	cfg := config{
		baseURL:    DefaultBaseURL,
		maxRetries: -1,
		headers:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	baseURL := cfg.baseURL
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
	}
	if cfg.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(cfg.httpClient))
	}
	if cfg.maxRetries >= 0 {
		reqOpts = append(reqOpts, option.WithMaxRetries(cfg.maxRetries))
	}
	for k, v := range cfg.headers {
		reqOpts = append(reqOpts, option.WithHeader(k, v))
	}

	client := openai.NewClient(reqOpts...)
	return &Client{client: &client, model: cfg.model}
}

// params builds SDK parameters plus request options for extra body fields.
func (c *Client) params(messages []openrouter.Message, opts []openrouter.Option) (openai.ChatCompletionNewParams, []option.RequestOption, error) {
	if len(messages) == 0 {
		return openai.ChatCompletionNewParams{}, nil, openrouter.ErrEmptyInput
	}
	options := openrouter.ApplyOptions(opts...)
	model := options.Model
	if model == "" {
		model = c.model
	}
	if model == "" {
		return openai.ChatCompletionNewParams{}, nil, ErrNoModel
	}

	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: convertMessages(messages),
	}
	if options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(options.MaxTokens))
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	}
	if options.TopP != nil {
		params.TopP = openai.Float(*options.TopP)
	}
	if len(options.Stop) > 0 {
		params.Stop = openai.ChatCompletionNewParamsStopUnion{OfStringArray: options.Stop}
	}

	var reqOpts []option.RequestOption
	for k, v := range options.Extra {
		reqOpts = append(reqOpts, option.WithJSONSet(k, v))
	}
	return params, reqOpts, nil
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []openrouter.Message, opts ...openrouter.Option) (*openrouter.ChatCompletion, error) {
	params, reqOpts, err := c.params(messages, opts)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Chat.Completions.New(ctx, params, reqOpts...)
	if err != nil {
		return nil, wrapError(err)
	}
	return convertCompletion(resp), nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
// The channel is closed after the final event.
func (c *Client) ChatStream(ctx context.Context, messages []openrouter.Message, opts ...openrouter.Option) (<-chan openrouter.StreamEvent, error) {
	params, reqOpts, err := c.params(messages, opts)
	if err != nil {
		return nil, err
	}
	params.StreamOptions = openai.ChatCompletionStreamOptionsParam{
		IncludeUsage: openai.Bool(true),
	}

	stream := c.client.Chat.Completions.NewStreaming(ctx, params, reqOpts...)
	ch := make(chan openrouter.StreamEvent)

	go func() {
		defer close(ch)
		defer stream.Close()
		var acc openrouter.StreamAccumulator

		for stream.Next() {
			chunk := convertChunk(stream.Current())
			acc.Add(chunk)

			select {
			case ch <- openrouter.StreamEvent{Chunk: chunk, Delta: chunk.Content()}:
			case <-ctx.Done():
				return
			}
		}

		ev := openrouter.StreamEvent{Done: true, Response: acc.Completion()}
		if err := stream.Err(); err != nil {
			if ctx.Err() != nil {
				return
			}
			ev = openrouter.StreamEvent{Err: wrapError(err)}
		}
		select {
		case ch <- ev:
		case <-ctx.Done():
		}
	}()

	return ch, nil
}

var _ openrouter.ChatProvider = (*Client)(nil)
