package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/synapsai-cloud/synapsai-go/synapsai"
)

type embedFlags struct {
	similarity  string
	batchSize   int
	concurrency int
	dimensions  int
}

func (a *App) newEmbedCommand() *cobra.Command {
	var f embedFlags

	cmd := &cobra.Command{
		Use:   "embed [text...]",
		Short: "Embed texts or score them against a source sentence",
		Long: `Embed texts given as arguments, or one per line on stdin.

With --similarity, each text is scored against the given source sentence
instead of printing its embedding.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEmbed(cmd, args, f)
		},
	}

	cmd.Flags().StringVar(&f.similarity, "similarity", "", "Source sentence to compare texts against")
	cmd.Flags().IntVar(&f.batchSize, "batch-size", 32, "Texts per request")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 4, "Concurrent requests")
	cmd.Flags().IntVar(&f.dimensions, "dimensions", 0, "Output dimensions (0 = model default)")

	return cmd
}

func (a *App) runEmbed(cmd *cobra.Command, args []string, f embedFlags) error {
	texts := args
	if len(texts) == 0 {
		var err error
		if texts, err = a.readLines(); err != nil {
			return a.fail(ExitValidation, fmt.Errorf("read stdin: %w", err))
		}
	}
	if len(texts) == 0 {
		return a.fail(ExitValidation, errors.New("no input texts"))
	}
	if f.batchSize < 1 || f.concurrency < 1 {
		return a.fail(ExitValidation, errors.New("--batch-size and --concurrency must be positive"))
	}

	model, err := a.requireModel(a.cfg.EmbeddingModel, a.cfg.DefaultModel)
	if err != nil {
		return err
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	defer client.Close()

	if f.similarity != "" {
		return a.runSimilarity(cmd, client, model, f.similarity, texts)
	}

	embeddings, err := embedBatches(cmd, client, model, texts, f)
	if err != nil {
		return a.handleError(err)
	}

	if a.jsonOutput {
		return a.writeJSON(synapsai.EmbeddingResponse{Object: "list", Model: model, Data: embeddings})
	}
	for _, e := range embeddings {
		fmt.Fprintf(a.stdout, "%d\t%d dims\t%s\n", e.Index, len(e.Embedding.Values), textAt(texts, e.Index))
	}
	return nil
}

// embedBatches embeds texts in concurrent batches, keeping input order.
func embedBatches(cmd *cobra.Command, client *synapsai.Client, model string, texts []string, f embedFlags) ([]synapsai.Embedding, error) {
	var batches [][]string
	for start := 0; start < len(texts); start += f.batchSize {
		end := min(start+f.batchSize, len(texts))
		batches = append(batches, texts[start:end])
	}

	results := make([][]synapsai.Embedding, len(batches))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(f.concurrency)

	for i, batch := range batches {
		g.Go(func() error {
			params := &synapsai.EmbeddingParams{Model: model, Input: batch}
			if f.dimensions > 0 {
				params.Dimensions = &f.dimensions
			}
			resp, err := client.Embeddings.Create(ctx, params)
			if err != nil {
				return err
			}
			for j := range resp.Data {
				resp.Data[j].Index += i * f.batchSize
			}
			results[i] = resp.Data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]synapsai.Embedding, 0, len(texts))
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func (a *App) runSimilarity(cmd *cobra.Command, client *synapsai.Client, model, source string, texts []string) error {
	resp, err := client.Embeddings.Similarity(cmd.Context(), &synapsai.SimilarityParams{
		Model:          model,
		SourceSentence: source,
		Sentences:      texts,
	})
	if err != nil {
		return a.handleError(err)
	}

	if a.jsonOutput {
		return a.writeJSON(resp)
	}
	for _, r := range resp.Data {
		fmt.Fprintf(a.stdout, "%.4f\t%s\n", r.Similarity, textAt(texts, r.Index))
	}
	return nil
}

func (a *App) readLines() ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(a.stdin)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}

func textAt(texts []string, i int) string {
	if i < 0 || i >= len(texts) {
		return ""
	}
	return texts[i]
}
