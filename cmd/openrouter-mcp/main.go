// Command openrouter-mcp serves the OpenRouter API as MCP tools over stdio.
//
// Usage:
//
//	go run ./cmd/openrouter-mcp
//
// Configuration for an MCP client such as Claude Desktop:
//
//	{
//	    "mcpServers": {
//	        "openrouter": {
//	            "command": "openrouter-mcp",
//	            "env": {"OPENROUTER_API_KEY": "sk-or-..."}
//	        }
//	    }
//	}
//
// Set OPENROUTER_METRICS_ADDR (e.g. ":9090") to expose Prometheus metrics
// at /metrics while the server runs.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/spetersoncode/openrouter/client"
	"github.com/spetersoncode/openrouter/internal/config"
	"github.com/spetersoncode/openrouter/mcp"
	"github.com/spetersoncode/openrouter/metrics"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var events chan client.Event
	if cfg.MetricsAddr != "" {
		events = make(chan client.Event, 256)
	}

	c, err := client.New(cfg.Client(logger, events))
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		collector := metrics.NewCollector(reg)
		g.Go(func() error {
			collector.Consume(ctx, events)
			return nil
		})

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		g.Go(func() error {
			logger.Info("serving metrics", "addr", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			return srv.Shutdown(context.Background())
		})
	}

	g.Go(func() error {
		// Stdin closing ends the session; stop the metrics server with it.
		defer cancel()
		return mcp.ServeStdio(c,
			mcp.WithName("openrouter"),
			mcp.WithDefaultModel(cfg.Model),
		)
	})

	return g.Wait()
}
