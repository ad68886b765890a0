// Package llm talks to text-generation backends. Every backend implements
// Provider; decorators add timeouts, retries and event logging.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates text, or schema-checked JSON when Request.Schema is
// set, from a single prompt.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

// Request is one prompt. Quiz prompts are single turn: an optional system
// prompt plus one user message.
type Request struct {
	System   string
	Messages []Message

	// Schema switches the backend to its native JSON output mode. The
	// reply is validated before it is returned.
	Schema *Schema

	MaxTokens int
	// Temperature 0 leaves the backend default in place.
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema document. Name must be stable per
// Definition; compiled schemas are cached by name.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a backend reply. Content is free text for plain requests
// and the validated JSON document for schema requests.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	Model   string
	// StopReason is "end" or "max_tokens".
	StopReason string
}

// Text returns Content as a string.
func (r *Response) Text() string {
	return string(r.Content)
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
