package synapsai

import (
	"context"
)

const fillMaskPath = "fill-mask"

// FillMaskParams predict the masked token of each input.
type FillMaskParams struct {
	Model   string
	Inputs  any  // string or []string, each holding the model's mask token
	Targets any  // string or []string restricting the candidates
	TopK    *int // default 5

	Extra map[string]any
}

// FillMaskResult is one candidate for the masked token.
type FillMaskResult struct {
	Score    float64 `json:"score"`
	Token    int     `json:"token"`
	TokenStr string  `json:"token_str"`
	Sequence string  `json:"sequence"`
}

// FillMaskResponse is the fill-mask endpoint response.
type FillMaskResponse struct {
	ID      string           `json:"id,omitempty"`
	Object  string           `json:"object"`
	Created int64            `json:"created,omitempty"`
	Data    []FillMaskResult `json:"data"`
	Usage   *Usage           `json:"usage,omitempty"`
}

// FillMaskService calls the fill-mask endpoint.
type FillMaskService struct {
	client *Client
}

// Create fills the mask token in the inputs.
func (s *FillMaskService) Create(ctx context.Context, p *FillMaskParams) (*FillMaskResponse, error) {
	if p == nil {
		p = &FillMaskParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}

	return postJSON[FillMaskResponse](ctx, s.client, fillMaskPath, buildPayload(map[string]any{
		"model":   p.Model,
		"inputs":  p.Inputs,
		"targets": p.Targets,
		"top_k":   valueOr(p.TopK, 5),
	}, p.Extra))
}
