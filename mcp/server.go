// Package mcp exposes the OpenRouter API as MCP (Model Context Protocol)
// tools, so MCP clients such as desktop assistants can chat with any
// OpenRouter model, list models and check the account balance.
//
//	c, err := client.New(client.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := mcp.ServeStdio(c); err != nil {
//	    log.Fatal(err)
//	}
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/spetersoncode/openrouter"
)

// API is the subset of *client.Client the tools call.
type API interface {
	Chat(ctx context.Context, messages []openrouter.Message, opts ...openrouter.Option) (*openrouter.ChatCompletion, error)
	Models(ctx context.Context) (*openrouter.ModelList, error)
	Balance(ctx context.Context) (*openrouter.Credits, error)
}

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name         string
	version      string
	defaultModel string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithDefaultModel sets the model the chat tool uses when the caller names none.
// Without it the API's own default applies.
func WithDefaultModel(model string) ServerOption {
	return func(c *serverConfig) {
		c.defaultModel = model
	}
}

// NewServer creates an MCP server with the chat, list_models and
// get_balance tools backed by api.
func NewServer(api API, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "openrouter-mcp-server",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
	)

	h := &handlers{api: api, defaultModel: cfg.defaultModel}
	s.AddTool(chatTool(), h.chat)
	s.AddTool(listModelsTool(), h.listModels)
	s.AddTool(balanceTool(), h.balance)
	return s
}

// ServeStdio starts an MCP server that communicates over stdin/stdout.
// This is the standard transport for MCP servers invoked as subprocesses.
func ServeStdio(api API, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(api, opts...))
}
