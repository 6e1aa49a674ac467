package synapsai

import (
	"context"

	"github.com/synapsai-cloud/synapsai-go/core"
	"github.com/synapsai-cloud/synapsai-go/internal/normalize"
)

const (
	chatCompletionsPath = "chat/completions"
	completionsPath     = "completions"
)

// ChatService groups chat endpoints.
type ChatService struct {
	Completions *ChatCompletionsService
}

// ChatCompletionsService calls the chat completions endpoint.
type ChatCompletionsService struct {
	client *Client
}

// Create sends a non-streaming chat completion request.
func (s *ChatCompletionsService) Create(ctx context.Context, p *ChatCompletionParams) (*ChatCompletion, error) {
	body, err := buildChatPayload(p, false)
	if err != nil {
		return nil, err
	}
	return postJSON[ChatCompletion](ctx, s.client, chatCompletionsPath, body)
}

// Stream sends a streaming chat completion request. The returned stream
// must be drained or closed.
func (s *ChatCompletionsService) Stream(ctx context.Context, p *ChatCompletionParams) (*core.Stream[ChatCompletionChunk], error) {
	body, err := buildChatPayload(p, true)
	if err != nil {
		return nil, err
	}
	return streamEvents[ChatCompletionChunk](ctx, s.client, chatCompletionsPath, body)
}

func buildChatPayload(p *ChatCompletionParams, stream bool) (payload, error) {
	if p == nil {
		p = &ChatCompletionParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}
	if len(p.Messages) == 0 {
		return nil, normalize.ValidationError(core.ErrNoMessages)
	}

	return buildPayload(map[string]any{
		"model":             p.Model,
		"messages":          p.Messages,
		"temperature":       valueOr(p.Temperature, 1.0),
		"top_p":             valueOr(p.TopP, 1.0),
		"n":                 valueOr(p.N, 1),
		"stream":            stream,
		"stop":              p.Stop,
		"max_tokens":        p.MaxTokens,
		"presence_penalty":  valueOr(p.PresencePenalty, 0.0),
		"frequency_penalty": valueOr(p.FrequencyPenalty, 0.0),
		"logit_bias":        p.LogitBias,
		"functions":         p.Functions,
		"function_call":     p.FunctionCall,
		"tools":             p.Tools,
		"tool_choice":       p.ToolChoice,
		"response_format":   p.ResponseFormat,
		"seed":              p.Seed,
	}, p.Extra), nil
}

// CompletionsService calls the text completions endpoint.
type CompletionsService struct {
	client *Client
}

// Create sends a non-streaming completion request.
func (s *CompletionsService) Create(ctx context.Context, p *CompletionParams) (*Completion, error) {
	body, err := buildCompletionPayload(p, false)
	if err != nil {
		return nil, err
	}
	return postJSON[Completion](ctx, s.client, completionsPath, body)
}

// Stream sends a streaming completion request.
func (s *CompletionsService) Stream(ctx context.Context, p *CompletionParams) (*core.Stream[CompletionChunk], error) {
	body, err := buildCompletionPayload(p, true)
	if err != nil {
		return nil, err
	}
	return streamEvents[CompletionChunk](ctx, s.client, completionsPath, body)
}

func buildCompletionPayload(p *CompletionParams, stream bool) (payload, error) {
	if p == nil {
		p = &CompletionParams{}
	}
	if err := requireModel(p.Model); err != nil {
		return nil, err
	}

	stop := p.Stop
	if stop == nil {
		stop = []string{}
	}

	return buildPayload(map[string]any{
		"model":                 p.Model,
		"prompt":                p.Prompt,
		"temperature":           valueOr(p.Temperature, 1.0),
		"top_p":                 valueOr(p.TopP, 1.0),
		"n":                     valueOr(p.N, 1),
		"stream":                stream,
		"stop":                  stop,
		"max_completion_tokens": valueOr(p.MaxCompletionTokens, 128),
		"presence_penalty":      valueOr(p.PresencePenalty, 0.0),
		"frequency_penalty":     valueOr(p.FrequencyPenalty, 0.0),
		"logit_bias":            p.LogitBias,
	}, p.Extra), nil
}
