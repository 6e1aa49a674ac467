package synapsai

import (
	"context"
	"errors"
	"math"

	"github.com/synapsai-cloud/synapsai-go/core"
	"github.com/synapsai-cloud/synapsai-go/internal/normalize"
)

const embeddingsPath = "embeddings"

// EmbeddingsService calls the embeddings endpoint.
type EmbeddingsService struct {
	client *Client
}

// Create generates embeddings for the input.
func (s *EmbeddingsService) Create(ctx context.Context, p *EmbeddingParams) (*EmbeddingResponse, error) {
	if p == nil {
		p = &EmbeddingParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}
	if isNil(p.Input) {
		return nil, normalize.ValidationError(errors.New("input required"))
	}

	body := buildPayload(map[string]any{
		"model":           p.Model,
		"input":           p.Input,
		"encoding_format": stringOr(p.EncodingFormat, EncodingFloat),
		"dimensions":      p.Dimensions,
	}, p.Extra)
	return postJSON[EmbeddingResponse](ctx, s.client, embeddingsPath, body)
}

// Similarity embeds the source sentence together with Sentences in one
// request and scores each sentence by cosine similarity to the source.
// An empty Sentences list fails before any request is made.
func (s *EmbeddingsService) Similarity(ctx context.Context, p *SimilarityParams) (*SimilarityResponse, error) {
	if p == nil {
		p = &SimilarityParams{}
	}
	if len(p.Sentences) == 0 {
		return nil, normalize.ValidationError(core.ErrEmptySentences)
	}

	inputs := make([]string, 0, len(p.Sentences)+1)
	inputs = append(inputs, p.SourceSentence)
	inputs = append(inputs, p.Sentences...)

	resp, err := s.Create(ctx, &EmbeddingParams{
		Model:          p.Model,
		Input:          inputs,
		EncodingFormat: p.EncodingFormat,
		Extra:          p.Extra,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, normalize.Unknown("failed to obtain embeddings")
	}

	source := resp.Data[0].Embedding.Values
	results := make([]SimilarityResult, 0, len(resp.Data)-1)
	for _, item := range resp.Data[1:] {
		r := SimilarityResult{
			Object:     "similarity",
			Similarity: CosineSimilarity(source, item.Embedding.Values),
			Index:      item.Index - 1,
		}
		if p.ReturnEmbeddings {
			emb := item.Embedding
			r.Embedding = &emb
		}
		results = append(results, r)
	}

	return &SimilarityResponse{
		Object: "list",
		Data:   results,
		Model:  resp.Model,
		Usage:  resp.Usage,
	}, nil
}

// CosineSimilarity returns the cosine similarity of a and b, or 0 if either
// has zero norm. Extra elements of the longer vector are ignored.
func CosineSimilarity(a, b []float64) float64 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, x := range a {
		na += x * x
	}
	for _, x := range b {
		nb += x * x
	}
	denom := math.Sqrt(na) * math.Sqrt(nb)
	if denom == 0 {
		return 0
	}
	return dot / denom
}
