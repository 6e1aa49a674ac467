package synapsai

import (
	"encoding/json"
	"strings"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleFunction  = "function"
	RoleTool      = "tool"
)

// Finish reasons.
const (
	FinishReasonStop          = "stop"
	FinishReasonLength        = "length"
	FinishReasonFunctionCall  = "function_call"
	FinishReasonToolCalls     = "tool_calls"
	FinishReasonContentFilter = "content_filter"
)

// ChatMessage is one message of a conversation.
type ChatMessage struct {
	Role         string        `json:"role"`
	Content      string        `json:"content,omitempty"`
	Name         string        `json:"name,omitempty"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
	ToolCalls    []ToolCall    `json:"tool_calls,omitempty"`
	ToolCallID   string        `json:"tool_call_id,omitempty"`
}

// SystemMessage returns a system message.
func SystemMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleSystem, Content: content}
}

// UserMessage returns a user message.
func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

// AssistantMessage returns an assistant message.
func AssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: RoleAssistant, Content: content}
}

// ToolMessage returns the result of a tool call.
func ToolMessage(toolCallID, content string) ChatMessage {
	return ChatMessage{Role: RoleTool, ToolCallID: toolCallID, Content: content}
}

// FunctionCall is a function invocation requested by the model.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall is a tool invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// Function describes a callable function.
type Function struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

// Tool wraps a function definition.
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// FunctionTool returns a tool of type "function".
func FunctionTool(fn Function) Tool {
	return Tool{Type: "function", Function: fn}
}

// ResponseFormat selects "text" or "json_object" output.
type ResponseFormat struct {
	Type string `json:"type"`
}

// ChatCompletionParams are the parameters of a chat completion.
// Nil pointers are omitted; some have client-side defaults noted below.
type ChatCompletionParams struct {
	Model    string
	Messages []ChatMessage

	Temperature      *float64 // default 1.0
	TopP             *float64 // default 1.0
	N                *int     // default 1
	Stop             []string
	MaxTokens        *int
	PresencePenalty  *float64 // default 0
	FrequencyPenalty *float64 // default 0
	LogitBias        map[string]float64
	Functions        []Function
	FunctionCall     any // "none", "auto", or {"name": ...}
	Tools            []Tool
	ToolChoice       any // "none", "auto", "required", or a tool selector
	ResponseFormat   *ResponseFormat
	Seed             *int

	// Extra holds additional fields sent as-is. Nil values are dropped.
	Extra map[string]any
}

// Delta is the incremental message of a streamed choice.
type Delta struct {
	Role         string        `json:"role,omitempty"`
	Content      string        `json:"content,omitempty"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
	ToolCalls    []ToolCall    `json:"tool_calls,omitempty"`
}

// ChatCompletionChoice is one generated alternative.
type ChatCompletionChoice struct {
	Index        int             `json:"index"`
	Message      *ChatMessage    `json:"message,omitempty"`
	Delta        *Delta          `json:"delta,omitempty"`
	Logprobs     json.RawMessage `json:"logprobs,omitempty"`
	FinishReason string          `json:"finish_reason,omitempty"`
}

// ChatCompletion is a complete chat response.
type ChatCompletion struct {
	ID                string                 `json:"id,omitempty"`
	Object            string                 `json:"object"`
	Created           int64                  `json:"created,omitempty"`
	Model             string                 `json:"model"`
	Choices           []ChatCompletionChoice `json:"choices"`
	SystemFingerprint string                 `json:"system_fingerprint,omitempty"`
	Usage             *Usage                 `json:"usage,omitempty"`
}

// Text returns the content of the first choice.
func (c *ChatCompletion) Text() string {
	if len(c.Choices) == 0 || c.Choices[0].Message == nil {
		return ""
	}
	return c.Choices[0].Message.Content
}

// ChatCompletionChunk is one streamed piece of a chat response.
type ChatCompletionChunk struct {
	ID                string                 `json:"id,omitempty"`
	Object            string                 `json:"object"`
	Created           int64                  `json:"created,omitempty"`
	Model             string                 `json:"model"`
	Choices           []ChatCompletionChoice `json:"choices"`
	SystemFingerprint string                 `json:"system_fingerprint,omitempty"`
	Usage             *Usage                 `json:"usage,omitempty"`
}

// Text returns the content delta of the first choice.
func (c ChatCompletionChunk) Text() string {
	if len(c.Choices) == 0 || c.Choices[0].Delta == nil {
		return ""
	}
	return c.Choices[0].Delta.Content
}

// JoinChatChunks concatenates the first-choice deltas of chunks.
func JoinChatChunks(chunks []ChatCompletionChunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c.Text())
	}
	return sb.String()
}

// CompletionParams are the parameters of a text completion.
type CompletionParams struct {
	Model  string
	Prompt string

	Temperature         *float64 // default 1.0
	TopP                *float64 // default 1.0
	N                   *int     // default 1
	Stop                []string // default []
	MaxCompletionTokens *int     // default 128
	PresencePenalty     *float64 // default 0
	FrequencyPenalty    *float64 // default 0
	LogitBias           map[string]float64

	Extra map[string]any
}

// CompletionChoice is one generated alternative.
type CompletionChoice struct {
	Index        int             `json:"index"`
	Text         string          `json:"text"`
	Logprobs     json.RawMessage `json:"logprobs,omitempty"`
	FinishReason string          `json:"finish_reason,omitempty"`
}

// Completion is a complete text completion response.
type Completion struct {
	ID                string             `json:"id,omitempty"`
	Object            string             `json:"object"`
	Created           int64              `json:"created,omitempty"`
	Model             string             `json:"model"`
	Choices           []CompletionChoice `json:"choices"`
	SystemFingerprint string             `json:"system_fingerprint,omitempty"`
	Usage             *Usage             `json:"usage,omitempty"`
}

// CompletionChunk is one streamed piece of a text completion.
type CompletionChunk = Completion
