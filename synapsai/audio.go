package synapsai

import (
	"context"
	"io"
	"net/http"
)

// Audio requests go through the generic inference route; the payload names
// the actual endpoint.
const (
	inferencePath          = "inference"
	speechEndpoint         = "/audio/speech"
	transcriptionsEndpoint = "/audio/transcriptions"
)

// Voices.
const (
	VoiceAlloy   = "alloy"
	VoiceEcho    = "echo"
	VoiceFable   = "fable"
	VoiceOnyx    = "onyx"
	VoiceNova    = "nova"
	VoiceShimmer = "shimmer"
)

// Timestamp granularities for transcriptions.
const (
	GranularityWord    = "word"
	GranularitySegment = "segment"
	GranularityChar    = "char"
)

// SpeechParams are the parameters of a text-to-speech request.
type SpeechParams struct {
	Model          string
	Input          string
	Voice          string
	ResponseFormat string   // "mp3" (default), "opus", "aac", "flac", "wav", "pcm"
	Speed          *float64 // default 1.0

	Extra map[string]any
}

// Speech is synthesized audio.
type Speech struct {
	Content     []byte
	ContentType string
}

// SpeechStream is synthesized audio delivered as it is produced.
// Read errors are *core.APIError of KindTransport. Close must be called.
type SpeechStream struct {
	io.ReadCloser
	ContentType string
	RequestID   string
}

// TranscriptionParams are the parameters of a speech-to-text request.
type TranscriptionParams struct {
	Model                  string
	File                   Media
	Language               string // ISO-639-1
	Prompt                 string
	ResponseFormat         string   // default "json"
	Temperature            *float64 // default 0
	TimestampGranularities []string // default ["segment"]

	Extra map[string]any
}

// Word is a word-level timestamp.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is a segment-level transcript.
type Segment struct {
	ID          int     `json:"id"`
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Text        string  `json:"text"`
	Temperature float64 `json:"temperature"`
}

// Transcription is the speech-to-text response.
type Transcription struct {
	ID       string    `json:"id,omitempty"`
	Object   string    `json:"object"`
	Created  int64     `json:"created,omitempty"`
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Duration *float64  `json:"duration,omitempty"`
	Words    []Word    `json:"words,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
}

// AudioService groups audio endpoints.
type AudioService struct {
	Speech         *SpeechService
	Transcriptions *TranscriptionsService
}

// SpeechService synthesizes speech.
type SpeechService struct {
	client *Client
}

// Create synthesizes speech and returns the whole audio file.
func (s *SpeechService) Create(ctx context.Context, p *SpeechParams) (*Speech, error) {
	body, err := buildSpeechPayload(p, false)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(ctx, &Request{Method: http.MethodPost, Path: inferencePath, JSON: body})
	if err != nil {
		return nil, err
	}
	return &Speech{
		Content:     resp.Body,
		ContentType: stringOr(resp.Header.Get("Content-Type"), "audio/mpeg"),
	}, nil
}

// Stream synthesizes speech and returns the audio as it arrives. Opening the
// stream is retried; a failure while reading is not.
func (s *SpeechService) Stream(ctx context.Context, p *SpeechParams) (*SpeechStream, error) {
	body, err := buildSpeechPayload(p, true)
	if err != nil {
		return nil, err
	}

	opened, err := s.client.OpenStream(ctx, &Request{Method: http.MethodPost, Path: inferencePath, JSON: body})
	if err != nil {
		return nil, err
	}
	return &SpeechStream{
		ReadCloser:  opened.Body,
		ContentType: stringOr(opened.Header.Get("Content-Type"), "audio/mpeg"),
		RequestID:   opened.RequestID,
	}, nil
}

func buildSpeechPayload(p *SpeechParams, stream bool) (payload, error) {
	if p == nil {
		p = &SpeechParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}

	return buildPayload(map[string]any{
		"endpoint":        speechEndpoint,
		"model":           p.Model,
		"input":           p.Input,
		"voice":           p.Voice,
		"response_format": stringOr(p.ResponseFormat, "mp3"),
		"speed":           valueOr(p.Speed, 1.0),
		"stream":          stream,
	}, p.Extra), nil
}

// TranscriptionsService transcribes audio.
type TranscriptionsService struct {
	client *Client
}

// Create transcribes an audio file. The file is sent base64-encoded.
func (s *TranscriptionsService) Create(ctx context.Context, p *TranscriptionParams) (*Transcription, error) {
	if p == nil {
		p = &TranscriptionParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}
	file, err := resolveMedia(p.File)
	if err != nil {
		return nil, err
	}

	granularities := p.TimestampGranularities
	if len(granularities) == 0 {
		granularities = []string{GranularitySegment}
	}

	body := buildPayload(map[string]any{
		"endpoint":                transcriptionsEndpoint,
		"model":                   p.Model,
		"file":                    file,
		"language":                optString(p.Language),
		"prompt":                  optString(p.Prompt),
		"response_format":         stringOr(p.ResponseFormat, "json"),
		"temperature":             valueOr(p.Temperature, 0.0),
		"timestamp_granularities": granularities,
	}, p.Extra)
	return postJSON[Transcription](ctx, s.client, inferencePath, body)
}
