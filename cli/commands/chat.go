package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synapsai-cloud/synapsai-go/core"
	"github.com/synapsai-cloud/synapsai-go/synapsai"
)

type chatFlags struct {
	prompt      string
	system      string
	temperature float64
	maxTokens   int
	stream      bool
}

func (a *App) newChatCommand() *cobra.Command {
	var f chatFlags

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Send a chat completion request",
		Long: `Send a chat completion request.

Examples:
  synapsai chat --model llama-3 --prompt "Hello"
  synapsai chat --prompt "Hello" --stream
  synapsai chat --prompt "Hello" --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.prompt, "prompt", "", "User message (required)")
	cmd.Flags().StringVar(&f.system, "system", "", "System message")
	cmd.Flags().Float64Var(&f.temperature, "temperature", 1.0, "Sampling temperature")
	cmd.Flags().IntVar(&f.maxTokens, "max-tokens", 0, "Max tokens (0 = server default)")
	cmd.Flags().BoolVar(&f.stream, "stream", false, "Enable streaming output")

	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

func (a *App) runChat(cmd *cobra.Command, f chatFlags) error {
	model, err := a.requireModel(a.cfg.DefaultModel)
	if err != nil {
		return err
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	defer client.Close()

	params := &synapsai.ChatCompletionParams{Model: model}
	if f.system != "" {
		params.Messages = append(params.Messages, synapsai.SystemMessage(f.system))
	}
	params.Messages = append(params.Messages, synapsai.UserMessage(f.prompt))

	if cmd.Flags().Changed("temperature") {
		params.Temperature = &f.temperature
	}
	if f.maxTokens > 0 {
		params.MaxTokens = &f.maxTokens
	}

	if f.stream {
		return a.runStreamingChat(cmd.Context(), client, params, f.prompt)
	}

	resp, err := client.Chat.Completions.Create(cmd.Context(), params)
	if err != nil {
		return a.handleError(err)
	}

	if a.jsonOutput {
		return a.writeJSON(resp)
	}

	fmt.Fprintf(a.stdout, "> %s\n", f.prompt)
	fmt.Fprintln(a.stdout, resp.Text())
	a.logUsage(resp.Usage)
	return nil
}

func (a *App) runStreamingChat(ctx context.Context, client *synapsai.Client, params *synapsai.ChatCompletionParams, prompt string) error {
	stream, err := client.Chat.Completions.Stream(ctx, params)
	if err != nil {
		return a.handleError(err)
	}

	if a.jsonOutput {
		chunks, err := core.Collect(ctx, stream)
		if err != nil {
			return a.handleError(err)
		}
		out := map[string]any{"output": synapsai.JoinChatChunks(chunks)}
		if len(chunks) > 0 {
			out["id"] = chunks[0].ID
			out["model"] = chunks[0].Model
		}
		return a.writeJSON(out)
	}

	fmt.Fprintf(a.stdout, "> %s\n", prompt)
	for chunk := range stream.Ch {
		fmt.Fprint(a.stdout, chunk.Text())
	}
	fmt.Fprintln(a.stdout)

	if err := <-stream.Err; err != nil {
		return a.handleError(err)
	}
	return nil
}

func (a *App) logUsage(u *synapsai.Usage) {
	if u == nil {
		return
	}
	a.logger.Debug("usage",
		"prompt_tokens", u.PromptTokens,
		"completion_tokens", u.CompletionTokens,
		"total_tokens", u.TotalTokens)
}
