package synapsai

import (
	"bytes"
	"encoding/json"
)

// Usage reports token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens,omitempty"`
	TotalTokens      int `json:"total_tokens"`
}

// OneOrMany decodes either a single JSON value or an array of them.
type OneOrMany[T any] []T

// UnmarshalJSON implements json.Unmarshaler.
func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*o = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var many []T
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return err
		}
		*o = many
		return nil
	}
	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	*o = OneOrMany[T]{one}
	return nil
}

// Label is a scored class label.
type Label struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// LabelList is the common response of classification endpoints.
type LabelList struct {
	ID      string  `json:"id,omitempty"`
	Object  string  `json:"object"`
	Created int64   `json:"created,omitempty"`
	Data    []Label `json:"data"`
	Usage   *Usage  `json:"usage,omitempty"`
}
