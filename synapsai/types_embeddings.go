package synapsai

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
)

// Encoding formats for embeddings.
const (
	EncodingFloat  = "float"
	EncodingBase64 = "base64"
)

// EmbeddingVector is an embedding returned either as a float array or as
// base64-encoded little-endian float32 values. Values is populated in both cases.
type EmbeddingVector struct {
	Values []float64

	// Base64 is the original string when the server sent the base64 form.
	Base64 string
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *EmbeddingVector) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		values, err := decodeBase64Floats(s)
		if err != nil {
			return err
		}
		v.Base64 = s
		v.Values = values
		return nil
	}
	v.Base64 = ""
	return json.Unmarshal(data, &v.Values)
}

// MarshalJSON writes the form the vector was received in.
func (v EmbeddingVector) MarshalJSON() ([]byte, error) {
	if v.Base64 != "" {
		return json.Marshal(v.Base64)
	}
	if v.Values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(v.Values)
}

func decodeBase64Floats(s string) ([]float64, error) {
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64 embedding: %w", err)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("decode base64 embedding: %d bytes is not a multiple of 4", len(raw))
	}
	out := make([]float64, len(raw)/4)
	for i := range out {
		out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:])))
	}
	return out, nil
}

// EmbeddingParams are the parameters of an embeddings request.
type EmbeddingParams struct {
	Model string

	// Input is a string, []string, []int token IDs, or [][]int.
	Input any

	EncodingFormat string // default "float"
	Dimensions     *int

	Extra map[string]any
}

// Embedding is one embedding of the input.
type Embedding struct {
	Object    string          `json:"object"`
	Embedding EmbeddingVector `json:"embedding"`
	Index     int             `json:"index"`
}

// EmbeddingResponse is the embeddings endpoint response.
type EmbeddingResponse struct {
	ID      string      `json:"id,omitempty"`
	Object  string      `json:"object"`
	Created int64       `json:"created,omitempty"`
	Data    []Embedding `json:"data"`
	Model   string      `json:"model"`
	Usage   *Usage      `json:"usage,omitempty"`
}

// SimilarityParams compare a source sentence against other sentences.
type SimilarityParams struct {
	Model          string
	SourceSentence string
	Sentences      []string

	// ReturnEmbeddings keeps each sentence embedding in the result.
	ReturnEmbeddings bool
	EncodingFormat   string // default "float"

	Extra map[string]any
}

// SimilarityResult scores one sentence against the source sentence.
type SimilarityResult struct {
	Object     string           `json:"object"`
	Similarity float64          `json:"similarity"`
	Embedding  *EmbeddingVector `json:"embedding,omitempty"`
	Index      int              `json:"index"`
}

// SimilarityResponse lists results in the order of SimilarityParams.Sentences.
type SimilarityResponse struct {
	Object string             `json:"object"`
	Data   []SimilarityResult `json:"data"`
	Model  string             `json:"model"`
	Usage  *Usage             `json:"usage,omitempty"`
}
