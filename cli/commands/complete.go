package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/synapsai-cloud/synapsai-go/core"
	"github.com/synapsai-cloud/synapsai-go/synapsai"
)

func (a *App) newCompleteCommand() *cobra.Command {
	var (
		prompt    string
		maxTokens int
		stream    bool
	)

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Send a text completion request",
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := a.requireModel(a.cfg.DefaultModel)
			if err != nil {
				return err
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			defer client.Close()

			params := &synapsai.CompletionParams{Model: model, Prompt: prompt}
			if maxTokens > 0 {
				params.MaxCompletionTokens = &maxTokens
			}

			ctx := cmd.Context()
			if !stream {
				resp, err := client.Completions.Create(ctx, params)
				if err != nil {
					return a.handleError(err)
				}
				if a.jsonOutput {
					return a.writeJSON(resp)
				}
				fmt.Fprintln(a.stdout, completionText(resp))
				a.logUsage(resp.Usage)
				return nil
			}

			s, err := client.Completions.Stream(ctx, params)
			if err != nil {
				return a.handleError(err)
			}
			if a.jsonOutput {
				chunks, err := core.Collect(ctx, s)
				if err != nil {
					return a.handleError(err)
				}
				var text string
				for i := range chunks {
					text += completionText(&chunks[i])
				}
				return a.writeJSON(map[string]any{"output": text})
			}

			for chunk := range s.Ch {
				fmt.Fprint(a.stdout, completionText(&chunk))
			}
			fmt.Fprintln(a.stdout)
			if err := <-s.Err; err != nil {
				return a.handleError(err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", "", "Prompt text (required)")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Max completion tokens (0 = default of 128)")
	cmd.Flags().BoolVar(&stream, "stream", false, "Enable streaming output")
	_ = cmd.MarkFlagRequired("prompt")

	return cmd
}

func completionText(c *synapsai.Completion) string {
	if len(c.Choices) == 0 {
		return ""
	}
	return c.Choices[0].Text
}
