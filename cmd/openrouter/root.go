package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/openrouter"
	"github.com/spetersoncode/openrouter/client"
	"github.com/spetersoncode/openrouter/internal/config"
)

// app carries the state shared by subcommands.
type app struct {
	cfg    *config.Config
	client *client.Client
	logger *slog.Logger

	model    string
	timeout  time.Duration
	logLevel string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "openrouter",
		Short: "Command-line client for the OpenRouter API",
		Long: `Chat with any model available on OpenRouter, stream replies,
list models and check your credit balance.

The API key is read from OPENROUTER_API_KEY (or a .env file).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.client != nil {
				a.client.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.model, "model", "m", "", "Model ID (default: OPENROUTER_MODEL)")
	rootCmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 0, "Request timeout (default: OPENROUTER_TIMEOUT or 30s)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newChatCmd(a),
		newStreamCmd(a),
		newBatchCmd(a),
		newModelsCmd(a),
		newBalanceCmd(a),
	)
	return rootCmd
}

// setup loads configuration, applies flag overrides and builds the client.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.Load()
	if a.model != "" {
		cfg.Model = a.model
	}
	if a.timeout > 0 {
		cfg.Timeout = a.timeout
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.Logger()
	c, err := client.New(cfg.Client(logger, nil))
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	a.client = c
	return nil
}

// requestFlags are the sampling flags shared by chat-style commands.
type requestFlags struct {
	system      string
	maxTokens   int
	temperature float64
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.system, "system", "s", "", "System message")
	cmd.Flags().IntVar(&f.maxTokens, "max-tokens", 0, "Maximum tokens to generate")
	cmd.Flags().Float64VarP(&f.temperature, "temperature", "t", 0, "Sampling temperature (0 to 2)")
}

// options converts flags the user actually set into request options.
func (f *requestFlags) options(cmd *cobra.Command) []openrouter.Option {
	var opts []openrouter.Option
	if f.maxTokens > 0 {
		opts = append(opts, openrouter.WithMaxTokens(f.maxTokens))
	}
	if cmd.Flags().Changed("temperature") {
		opts = append(opts, openrouter.WithTemperature(f.temperature))
	}
	return opts
}

func (f *requestFlags) messages(prompt string) []openrouter.Message {
	var msgs []openrouter.Message
	if f.system != "" {
		msgs = append(msgs, openrouter.SystemMessage(f.system))
	}
	return append(msgs, openrouter.UserMessage(prompt))
}
