package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/openrouter"
	"github.com/spetersoncode/openrouter/client"
	"github.com/spetersoncode/openrouter/conversation"
)

func newChatCmd(a *app) *cobra.Command {
	var flags requestFlags
	var session string

	cmd := &cobra.Command{
		Use:   "chat [prompt]",
		Short: "Send a prompt and print the reply",
		Long: `Send a prompt and print the reply.

With --session the conversation is loaded from and saved back to the given
file (JSON, or YAML for .yaml/.yml), so consecutive calls share history.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := strings.Join(args, " ")
			if session != "" {
				return a.chatSession(cmd, session, prompt, flags)
			}

			resp, err := a.client.Chat(cmd.Context(), flags.messages(prompt), flags.options(cmd)...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Content())
			if resp.Usage != nil {
				a.logger.Debug("usage",
					"model", resp.Model,
					"prompt_tokens", resp.Usage.PromptTokens,
					"completion_tokens", resp.Usage.CompletionTokens,
				)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&session, "session", "", "Conversation file to continue")
	return cmd
}

func (a *app) chatSession(cmd *cobra.Command, path, prompt string, flags requestFlags) error {
	model := a.cfg.Model
	if model == "" {
		model = client.DefaultCompletionModel
	}

	var opts []conversation.Option
	if flags.maxTokens > 0 {
		opts = append(opts, conversation.WithMaxTokens(flags.maxTokens))
	}
	if cmd.Flags().Changed("temperature") {
		opts = append(opts, conversation.WithTemperature(flags.temperature))
	}
	conv := conversation.New(a.client, model, opts...)

	if err := conv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if flags.system != "" {
		conv.SetSystem(flags.system)
	}

	reply, err := conv.Send(cmd.Context(), prompt)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), reply)

	_, err = conv.Save(path)
	return err
}

func newStreamCmd(a *app) *cobra.Command {
	var flags requestFlags

	cmd := &cobra.Command{
		Use:   "stream [prompt]",
		Short: "Send a prompt and print the reply as it is generated",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stream, err := a.client.ChatStream(cmd.Context(), flags.messages(strings.Join(args, " ")), flags.options(cmd)...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for event := range stream {
				if event.Err != nil {
					return event.Err
				}
				fmt.Fprint(out, event.Delta)
			}
			fmt.Fprintln(out)
			return cmd.Context().Err()
		},
	}
	flags.register(cmd)
	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	var flags requestFlags
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Send every line of a file as a separate prompt",
		Long: `Send every non-empty line of a file (or stdin with "-") as a separate
prompt, at most --concurrency at a time, and print the replies in order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompts, err := readPrompts(cmd, args[0])
			if err != nil {
				return err
			}

			opts := flags.options(cmd)
			requests := make([]client.BatchRequest, len(prompts))
			for i, p := range prompts {
				requests[i] = client.BatchRequest{Messages: flags.messages(p), Options: opts}
			}

			results, err := a.client.ChatBatch(cmd.Context(), requests, concurrency)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, res := range results {
				fmt.Fprintf(out, "[%d] %s\n", res.Index+1, prompts[res.Index])
				if res.Err != nil {
					failed++
					fmt.Fprintf(out, "error: %v\n\n", res.Err)
					continue
				}
				fmt.Fprintf(out, "%s\n\n", res.Completion.Content())
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d requests failed", failed, len(results))
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "Maximum concurrent requests")
	return cmd
}

func readPrompts(cmd *cobra.Command, path string) ([]string, error) {
	in := cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	var prompts []string
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			prompts = append(prompts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(prompts) == 0 {
		return nil, openrouter.ErrEmptyInput
	}
	return prompts, nil
}

func newModelsCmd(a *app) *cobra.Command {
	var free, asJSON bool

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.client.Models(cmd.Context())
			if err != nil {
				return err
			}
			models := list.Data
			if free {
				models = list.Free()
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(models)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCONTEXT\tPROMPT $/1M\tCOMPLETION $/1M")
			for _, m := range models {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", m.ID, m.ContextLength, perMillion(m.PromptPrice()), perMillion(m.CompletionPrice()))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&free, "free", false, "Only list models that cost nothing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func perMillion(price float64, ok bool) string {
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.2f", price*1e6)
}

func newBalanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show purchased, used and remaining credits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			credits, err := a.client.Balance(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Purchased: $%.4f\n", credits.TotalPurchased())
			fmt.Fprintf(out, "Used:      $%.4f\n", credits.TotalUsed())
			fmt.Fprintf(out, "Balance:   $%.4f\n", credits.Balance())
			return nil
		},
	}
}
