package synapsai

import (
	"context"
)

const (
	qaTextPath     = "question-answering"
	qaDocumentPath = "question-answering/document"
	qaTablePath    = "question-answering/table"
	qaVisualPath   = "question-answering/visual"
)

// QuestionAnsweringParams ask a question about a context text.
type QuestionAnsweringParams struct {
	Model    string
	Question string
	Context  string
	TopK     *int

	Extra map[string]any
}

// DocumentQuestionParams ask a question about a document image.
type DocumentQuestionParams struct {
	Model    string
	Image    Media
	Question string
	TopK     *int

	// WordBoxes are pre-computed OCR boxes; the server runs OCR when empty.
	WordBoxes any

	Extra map[string]any
}

// TableQuestionParams ask a question about a table given as column name to cells.
type TableQuestionParams struct {
	Model      string
	Table      map[string][]string
	Query      any // string or []string
	Sequential *bool
	Padding    any
	Truncation any

	Extra map[string]any
}

// VisualQuestionParams ask a question about an image.
type VisualQuestionParams struct {
	Model    string
	Image    Media
	Question string
	TopK     *int
	Timeout  *float64

	Extra map[string]any
}

// Answer is an extractive answer span.
type Answer struct {
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Answer string  `json:"answer"`
}

// AnswerResponse holds one answer, or top_k answers.
type AnswerResponse struct {
	ID      string            `json:"id,omitempty"`
	Object  string            `json:"object"`
	Created int64             `json:"created,omitempty"`
	Data    OneOrMany[Answer] `json:"data"`
	Usage   *Usage            `json:"usage,omitempty"`
}

// DocumentAnswer is an answer found in a document image.
type DocumentAnswer struct {
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
	Answer string  `json:"answer"`
	Words  []int   `json:"words,omitempty"`
}

// DocumentAnswerResponse holds one answer, or top_k answers.
type DocumentAnswerResponse struct {
	ID      string                    `json:"id,omitempty"`
	Object  string                    `json:"object"`
	Created int64                     `json:"created,omitempty"`
	Data    OneOrMany[DocumentAnswer] `json:"data"`
	Usage   *Usage                    `json:"usage,omitempty"`
}

// TableAnswer is an answer found in a table.
type TableAnswer struct {
	Answer      string   `json:"answer"`
	Coordinates [][2]int `json:"coordinates"`
	Cells       []string `json:"cells"`
	Aggregator  string   `json:"aggregator,omitempty"`
}

// TableAnswerResponse holds one answer per query.
type TableAnswerResponse struct {
	ID      string                 `json:"id,omitempty"`
	Object  string                 `json:"object"`
	Created int64                  `json:"created,omitempty"`
	Data    OneOrMany[TableAnswer] `json:"data"`
	Usage   *Usage                 `json:"usage,omitempty"`
}

// QuestionAnsweringService calls the question answering endpoints.
type QuestionAnsweringService struct {
	client *Client
}

// Text answers a question from a context text.
func (s *QuestionAnsweringService) Text(ctx context.Context, p *QuestionAnsweringParams) (*AnswerResponse, error) {
	if p == nil {
		p = &QuestionAnsweringParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}

	return postJSON[AnswerResponse](ctx, s.client, qaTextPath, buildPayload(map[string]any{
		"model":    p.Model,
		"question": p.Question,
		"context":  p.Context,
		"top_k":    p.TopK,
	}, p.Extra))
}

// Document answers a question about a document image.
func (s *QuestionAnsweringService) Document(ctx context.Context, p *DocumentQuestionParams) (*DocumentAnswerResponse, error) {
	if p == nil {
		p = &DocumentQuestionParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}
	image, err := resolveMedia(p.Image)
	if err != nil {
		return nil, err
	}

	return postJSON[DocumentAnswerResponse](ctx, s.client, qaDocumentPath, buildPayload(map[string]any{
		"model":      p.Model,
		"image":      image,
		"question":   p.Question,
		"top_k":      p.TopK,
		"word_boxes": p.WordBoxes,
	}, p.Extra))
}

// Table answers a question about a table.
func (s *QuestionAnsweringService) Table(ctx context.Context, p *TableQuestionParams) (*TableAnswerResponse, error) {
	if p == nil {
		p = &TableQuestionParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}

	return postJSON[TableAnswerResponse](ctx, s.client, qaTablePath, buildPayload(map[string]any{
		"model":      p.Model,
		"table":      p.Table,
		"query":      p.Query,
		"sequential": p.Sequential,
		"padding":    p.Padding,
		"truncation": p.Truncation,
	}, p.Extra))
}

// Visual answers an open question about an image. Answers come back as
// scored labels.
func (s *QuestionAnsweringService) Visual(ctx context.Context, p *VisualQuestionParams) (*LabelList, error) {
	if p == nil {
		p = &VisualQuestionParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}
	image, err := resolveMedia(p.Image)
	if err != nil {
		return nil, err
	}

	return postJSON[LabelList](ctx, s.client, qaVisualPath, buildPayload(map[string]any{
		"model":    p.Model,
		"image":    image,
		"question": p.Question,
		"top_k":    p.TopK,
		"timeout":  p.Timeout,
	}, p.Extra))
}
