package synapsai

import (
	"context"
)

const (
	classifyAudioPath  = "classifications/audio"
	classifyImagePath  = "classifications/image"
	classifyTextPath   = "classifications/text"
	classifyTokenPath  = "classifications/token"
	classifyVideoPath  = "classifications/video"
	zeroShotTextPath   = "classifications/zero-shot"
	zeroShotImagePath  = "classifications/zero-shot/image"
	zeroShotAudioPath  = "classifications/zero-shot/audio"
	zeroShotObjectPath = "classifications/zero-shot/object"
)

// Score functions accepted by FunctionToApply.
const (
	FunctionSigmoid = "sigmoid"
	FunctionSoftmax = "softmax"
	FunctionNone    = "none"
)

// AudioClassificationParams classify audio clips.
type AudioClassificationParams struct {
	Model           string
	Inputs          Media
	TopK            *int
	FunctionToApply string
}

// ImageClassificationParams classify images.
type ImageClassificationParams struct {
	Model           string
	Inputs          Media
	FunctionToApply string
	TopK            *int
	Timeout         *float64 // seconds the server waits for remote images
}

// TextClassificationParams classify texts.
type TextClassificationParams struct {
	Model string

	// Inputs is a string, []string, a TextPair, or []TextPair.
	Inputs          any
	TopK            *int
	FunctionToApply string
}

// TextPair is a text classified together with a companion text.
type TextPair struct {
	Text     string `json:"text"`
	TextPair string `json:"text_pair"`
}

// TokenClassificationParams label each token of the input texts.
type TokenClassificationParams struct {
	Model  string
	Inputs any // string or []string
}

// VideoClassificationParams classify videos.
type VideoClassificationParams struct {
	Model string

	// Inputs is a video URL or server-side path, or a list of them.
	Inputs            any
	TopK              *int
	NumFrames         *int
	FrameSamplingRate *int
	FunctionToApply   string
}

// TokenEntity is one labelled token.
type TokenEntity struct {
	Word   string  `json:"word"`
	Score  float64 `json:"score"`
	Entity string  `json:"entity"`
	Index  int     `json:"index"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}

// TokenClassificationResponse lists labelled tokens.
type TokenClassificationResponse struct {
	ID      string        `json:"id,omitempty"`
	Object  string        `json:"object"`
	Created int64         `json:"created,omitempty"`
	Data    []TokenEntity `json:"data"`
	Usage   *Usage        `json:"usage,omitempty"`
}

// ClassificationsService calls the classification endpoints.
type ClassificationsService struct {
	client *Client

	ZeroShot *ZeroShotService
}

// Audio classifies audio.
func (s *ClassificationsService) Audio(ctx context.Context, p *AudioClassificationParams) (*LabelList, error) {
	if p == nil {
		p = &AudioClassificationParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}
	inputs, err := resolveMedia(p.Inputs)
	if err != nil {
		return nil, err
	}

	return postJSON[LabelList](ctx, s.client, classifyAudioPath, buildPayload(map[string]any{
		"model":             p.Model,
		"inputs":            inputs,
		"top_k":             p.TopK,
		"function_to_apply": optString(p.FunctionToApply),
	}, nil))
}

// Image classifies images.
func (s *ClassificationsService) Image(ctx context.Context, p *ImageClassificationParams) (*LabelList, error) {
	if p == nil {
		p = &ImageClassificationParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}
	inputs, err := resolveMedia(p.Inputs)
	if err != nil {
		return nil, err
	}

	return postJSON[LabelList](ctx, s.client, classifyImagePath, buildPayload(map[string]any{
		"model":             p.Model,
		"inputs":            inputs,
		"function_to_apply": optString(p.FunctionToApply),
		"top_k":             p.TopK,
		"timeout":           p.Timeout,
	}, nil))
}

// Text classifies texts.
func (s *ClassificationsService) Text(ctx context.Context, p *TextClassificationParams) (*LabelList, error) {
	if p == nil {
		p = &TextClassificationParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}

	return postJSON[LabelList](ctx, s.client, classifyTextPath, buildPayload(map[string]any{
		"model":             p.Model,
		"inputs":            p.Inputs,
		"top_k":             p.TopK,
		"function_to_apply": optString(p.FunctionToApply),
	}, nil))
}

// Token labels the tokens of texts, e.g. for named entity recognition.
func (s *ClassificationsService) Token(ctx context.Context, p *TokenClassificationParams) (*TokenClassificationResponse, error) {
	if p == nil {
		p = &TokenClassificationParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}

	return postJSON[TokenClassificationResponse](ctx, s.client, classifyTokenPath, buildPayload(map[string]any{
		"model":  p.Model,
		"inputs": p.Inputs,
	}, nil))
}

// Video classifies videos.
func (s *ClassificationsService) Video(ctx context.Context, p *VideoClassificationParams) (*LabelList, error) {
	if p == nil {
		p = &VideoClassificationParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}

	return postJSON[LabelList](ctx, s.client, classifyVideoPath, buildPayload(map[string]any{
		"model":               p.Model,
		"inputs":              p.Inputs,
		"top_k":               p.TopK,
		"num_frames":          p.NumFrames,
		"frame_sampling_rate": p.FrameSamplingRate,
		"function_to_apply":   optString(p.FunctionToApply),
	}, nil))
}

// ZeroShotTextParams classify sequences against arbitrary labels.
type ZeroShotTextParams struct {
	Model              string
	Sequences          any // string or []string
	CandidateLabels    []string
	HypothesisTemplate string
	MultiLabel         *bool
}

// ZeroShotImageParams classify images against arbitrary labels.
type ZeroShotImageParams struct {
	Model              string
	Image              Media
	CandidateLabels    []string
	HypothesisTemplate string
	Timeout            *float64
}

// ZeroShotAudioParams classify audio against arbitrary labels.
type ZeroShotAudioParams struct {
	Model              string
	Audios             Media
	CandidateLabels    []string
	HypothesisTemplate string
}

// ZeroShotObjectParams locate a box given in corners format.
type ZeroShotObjectParams struct {
	Model string
	Box   any
}

// ZeroShotTextResult scores every candidate label for one sequence.
type ZeroShotTextResult struct {
	Sequence string    `json:"sequence"`
	Labels   []string  `json:"labels"`
	Scores   []float64 `json:"scores"`
}

// ZeroShotTextResponse is the zero-shot text classification response.
type ZeroShotTextResponse struct {
	ID      string               `json:"id,omitempty"`
	Object  string               `json:"object"`
	Created int64                `json:"created,omitempty"`
	Data    []ZeroShotTextResult `json:"data"`
	Usage   *Usage               `json:"usage,omitempty"`
}

// ObjectBox is a detected bounding box.
type ObjectBox struct {
	BBox map[string]int `json:"bbox"`
}

// ZeroShotObjectResponse is the zero-shot object detection response.
type ZeroShotObjectResponse struct {
	ID      string      `json:"id,omitempty"`
	Object  string      `json:"object"`
	Created int64       `json:"created,omitempty"`
	Data    []ObjectBox `json:"data"`
	Usage   *Usage      `json:"usage,omitempty"`
}

// ZeroShotService calls the zero-shot classification endpoints.
type ZeroShotService struct {
	client *Client
}

// Text classifies sequences against candidate labels.
func (s *ZeroShotService) Text(ctx context.Context, p *ZeroShotTextParams) (*ZeroShotTextResponse, error) {
	if p == nil {
		p = &ZeroShotTextParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}

	return postJSON[ZeroShotTextResponse](ctx, s.client, zeroShotTextPath, buildPayload(map[string]any{
		"model":               p.Model,
		"sequences":           p.Sequences,
		"candidate_labels":    p.CandidateLabels,
		"hypothesis_template": optString(p.HypothesisTemplate),
		"multi_label":         p.MultiLabel,
	}, nil))
}

// Image classifies images against candidate labels.
func (s *ZeroShotService) Image(ctx context.Context, p *ZeroShotImageParams) (*LabelList, error) {
	if p == nil {
		p = &ZeroShotImageParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}
	image, err := resolveMedia(p.Image)
	if err != nil {
		return nil, err
	}

	return postJSON[LabelList](ctx, s.client, zeroShotImagePath, buildPayload(map[string]any{
		"model":               p.Model,
		"image":               image,
		"candidate_labels":    p.CandidateLabels,
		"hypothesis_template": optString(p.HypothesisTemplate),
		"timeout":             p.Timeout,
	}, nil))
}

// Audio classifies audio against candidate labels.
func (s *ZeroShotService) Audio(ctx context.Context, p *ZeroShotAudioParams) (*LabelList, error) {
	if p == nil {
		p = &ZeroShotAudioParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}
	audios, err := resolveMedia(p.Audios)
	if err != nil {
		return nil, err
	}

	return postJSON[LabelList](ctx, s.client, zeroShotAudioPath, buildPayload(map[string]any{
		"model":               p.Model,
		"audios":              audios,
		"candidate_labels":    p.CandidateLabels,
		"hypothesis_template": optString(p.HypothesisTemplate),
	}, nil))
}

// Object runs zero-shot object detection.
func (s *ZeroShotService) Object(ctx context.Context, p *ZeroShotObjectParams) (*ZeroShotObjectResponse, error) {
	if p == nil {
		p = &ZeroShotObjectParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}

	return postJSON[ZeroShotObjectResponse](ctx, s.client, zeroShotObjectPath, buildPayload(map[string]any{
		"model": p.Model,
		"box":   p.Box,
	}, nil))
}
