package synapsai

import (
	"context"

	"github.com/synapsai-cloud/synapsai-go/core"
)

// Builder returns a ChatBuilder for model.
func (s *ChatCompletionsService) Builder(model string) *ChatBuilder {
	return &ChatBuilder{service: s, params: ChatCompletionParams{Model: model}}
}

// ChatBuilder provides a fluent API for building chat requests.
// ChatBuilder is NOT thread-safe and should not be shared across goroutines.
type ChatBuilder struct {
	service *ChatCompletionsService
	params  ChatCompletionParams
}

// System appends a system message.
func (b *ChatBuilder) System(s string) *ChatBuilder {
	b.params.Messages = append(b.params.Messages, SystemMessage(s))
	return b
}

// User appends a user message.
func (b *ChatBuilder) User(s string) *ChatBuilder {
	b.params.Messages = append(b.params.Messages, UserMessage(s))
	return b
}

// Assistant appends an assistant message.
func (b *ChatBuilder) Assistant(s string) *ChatBuilder {
	b.params.Messages = append(b.params.Messages, AssistantMessage(s))
	return b
}

// Message appends an arbitrary message, e.g. a tool result.
func (b *ChatBuilder) Message(m ChatMessage) *ChatBuilder {
	b.params.Messages = append(b.params.Messages, m)
	return b
}

// Temperature sets the temperature parameter.
func (b *ChatBuilder) Temperature(v float64) *ChatBuilder {
	b.params.Temperature = &v
	return b
}

// MaxTokens sets the maximum tokens parameter.
func (b *ChatBuilder) MaxTokens(n int) *ChatBuilder {
	b.params.MaxTokens = &n
	return b
}

// Stop sets the stop sequences.
func (b *ChatBuilder) Stop(seqs ...string) *ChatBuilder {
	b.params.Stop = seqs
	return b
}

// Seed sets the sampling seed.
func (b *ChatBuilder) Seed(n int) *ChatBuilder {
	b.params.Seed = &n
	return b
}

// Tools sets the tools available for the request.
func (b *ChatBuilder) Tools(ts ...Tool) *ChatBuilder {
	b.params.Tools = ts
	return b
}

// ResponseFormat sets the response format, e.g. {"type": "json_object"}.
func (b *ChatBuilder) ResponseFormat(f ResponseFormat) *ChatBuilder {
	b.params.ResponseFormat = &f
	return b
}

// Set adds a field sent as-is in the request body.
func (b *ChatBuilder) Set(key string, value any) *ChatBuilder {
	if b.params.Extra == nil {
		b.params.Extra = make(map[string]any)
	}
	b.params.Extra[key] = value
	return b
}

// Params returns a copy of the accumulated parameters.
func (b *ChatBuilder) Params() ChatCompletionParams {
	p := b.params
	p.Messages = append([]ChatMessage(nil), b.params.Messages...)
	return p
}

// GetResponse executes the request and returns the completion.
func (b *ChatBuilder) GetResponse(ctx context.Context) (*ChatCompletion, error) {
	p := b.Params()
	return b.service.Create(ctx, &p)
}

// Stream executes the request as a stream.
func (b *ChatBuilder) Stream(ctx context.Context) (*core.Stream[ChatCompletionChunk], error) {
	p := b.Params()
	return b.service.Stream(ctx, &p)
}
