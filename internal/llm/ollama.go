package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaProvider implements Provider against a locally served model
// through langchaingo. It only produces free text; Request.Schema is
// folded into the system prompt as a hint and the reply is not validated.
type OllamaProvider struct {
	model llms.Model
	name  string
}

// NewOllamaProvider creates a provider for cfg.Model on cfg.ServerURL.
// No network call is made until Generate.
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}
	opts := []ollama.Option{ollama.WithModel(cfg.Model)}
	if cfg.ServerURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.ServerURL))
	}
	m, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama client: %w", err)
	}
	return &OllamaProvider{model: m, name: cfg.Model}, nil
}

func (p *OllamaProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var msgs []llms.MessageContent
	system := req.System
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("marshal schema: %w", err)
		}
		system += "\nReply with JSON matching this schema:\n" + string(def)
	}
	if system != "" {
		msgs = append(msgs, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	for _, m := range req.Messages {
		role := llms.ChatMessageTypeHuman
		if m.Role == RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		msgs = append(msgs, llms.TextParts(role, m.Content))
	}

	var callOpts []llms.CallOption
	if req.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(req.Temperature))
	}

	resp, err := p.model.GenerateContent(ctx, msgs, callOpts...)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}
	if len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("no choices in ollama response")}
	}

	choice := resp.Choices[0]
	return &Response{
		Content:    json.RawMessage(choice.Content),
		Usage:      ollamaUsage(choice.GenerationInfo),
		Model:      p.name,
		StopReason: mapOllamaStopReason(choice.StopReason),
	}, nil
}

func (p *OllamaProvider) ModelID() string {
	return p.name
}

func ollamaUsage(info map[string]any) Usage {
	u := Usage{
		InputTokens:  intFrom(info["PromptTokens"]),
		OutputTokens: intFrom(info["CompletionTokens"]),
	}
	u.TotalTokens = intFrom(info["TotalTokens"])
	if u.TotalTokens == 0 {
		u.TotalTokens = u.InputTokens + u.OutputTokens
	}
	return u
}

func intFrom(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func mapOllamaStopReason(reason string) string {
	if reason == "length" {
		return "max_tokens"
	}
	return "end"
}
