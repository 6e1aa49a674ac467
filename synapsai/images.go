package synapsai

import (
	"context"
)

const (
	imagesGenerationsPath = "images/generations"
	imagesEditsPath       = "images/edits"
	imagesToTextPath      = "images/to-text"
)

// ImageGenerateParams are the parameters of an image generation request.
type ImageGenerateParams struct {
	Model          string
	Prompt         string
	N              *int   // default 1
	Quality        string // "standard" (default) or "hd"
	ResponseFormat string // "url" (default) or "b64_json"
	Size           string // default "1024x1024"
	Style          string // "vivid" (default) or "natural"

	Extra map[string]any
}

// ImageEditParams are the parameters of an image edit request.
type ImageEditParams struct {
	Model          string
	Image          Media
	Mask           *Media
	Prompt         string
	N              *int   // default 1
	Size           string // default "1024x1024"
	ResponseFormat string // default "url"

	Extra map[string]any
}

// ImageToTextParams are the parameters of an image-to-text request.
type ImageToTextParams struct {
	Model          string
	Inputs         Media
	MaxNewTokens   *int // default 300
	GenerateKwargs map[string]any

	Extra map[string]any
}

// Image is one generated or edited image.
type Image struct {
	URL           string `json:"url,omitempty"`
	B64JSON       string `json:"b64_json,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// ImagesResponse is returned by generation and edit requests.
type ImagesResponse struct {
	ID      string  `json:"id,omitempty"`
	Object  string  `json:"object"`
	Created int64   `json:"created,omitempty"`
	Data    []Image `json:"data"`
	Usage   *Usage  `json:"usage,omitempty"`
}

// ImageToTextResponse is returned by image-to-text requests.
type ImageToTextResponse struct {
	ID      string           `json:"id,omitempty"`
	Object  string           `json:"object"`
	Created int64            `json:"created,omitempty"`
	Model   string           `json:"model"`
	Data    []map[string]any `json:"data"`
	Usage   *Usage           `json:"usage,omitempty"`
}

// ImagesService calls the image endpoints.
type ImagesService struct {
	client *Client
}

// Generate creates images from a text prompt.
func (s *ImagesService) Generate(ctx context.Context, p *ImageGenerateParams) (*ImagesResponse, error) {
	if p == nil {
		p = &ImageGenerateParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}

	body := buildPayload(map[string]any{
		"model":           p.Model,
		"prompt":          p.Prompt,
		"n":               valueOr(p.N, 1),
		"quality":         stringOr(p.Quality, "standard"),
		"response_format": stringOr(p.ResponseFormat, "url"),
		"size":            stringOr(p.Size, "1024x1024"),
		"style":           stringOr(p.Style, "vivid"),
	}, p.Extra)
	return postJSON[ImagesResponse](ctx, s.client, imagesGenerationsPath, body)
}

// Edit modifies an image according to a prompt, optionally within a mask.
func (s *ImagesService) Edit(ctx context.Context, p *ImageEditParams) (*ImagesResponse, error) {
	if p == nil {
		p = &ImageEditParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}
	image, err := resolveMedia(p.Image)
	if err != nil {
		return nil, err
	}
	mask, err := resolveOptionalMedia(p.Mask)
	if err != nil {
		return nil, err
	}

	body := buildPayload(map[string]any{
		"model":           p.Model,
		"image":           image,
		"mask":            mask,
		"prompt":          p.Prompt,
		"n":               valueOr(p.N, 1),
		"size":            stringOr(p.Size, "1024x1024"),
		"response_format": stringOr(p.ResponseFormat, "url"),
	}, p.Extra)
	return postJSON[ImagesResponse](ctx, s.client, imagesEditsPath, body)
}

// ToText describes or extracts information from an image.
func (s *ImagesService) ToText(ctx context.Context, p *ImageToTextParams) (*ImageToTextResponse, error) {
	if p == nil {
		p = &ImageToTextParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}
	inputs, err := resolveMedia(p.Inputs)
	if err != nil {
		return nil, err
	}

	body := buildPayload(map[string]any{
		"model":           p.Model,
		"inputs":          inputs,
		"max_new_tokens":  valueOr(p.MaxNewTokens, 300),
		"generate_kwargs": p.GenerateKwargs,
	}, p.Extra)
	return postJSON[ImageToTextResponse](ctx, s.client, imagesToTextPath, body)
}
