package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"

	"github.com/showtell/quizgen/internal/facts"
	"github.com/showtell/quizgen/internal/llm"
	"github.com/showtell/quizgen/internal/quiz"
)

// Request is the per-call input handed to every strategy.
type Request struct {
	// Caption is the trimmed caption.
	Caption  string
	Expected int
	Facts    facts.FactSet

	// Hint is facts.HintLine(Facts).
	Hint string

	// Rand is the call's own random stream.
	Rand *rand.Rand
}

// Strategy is one fallible generation tier. Attempt returns whatever items
// it could produce; the generator decides whether they are enough.
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, req Request) ([]quiz.Item, error)
}

// HostedStrategy asks a hosted chat model for the textual quiz protocol
// and parses the reply.
type HostedStrategy struct {
	provider llm.Provider
	name     string
}

// NewHostedStrategy creates a hosted tier over p. backend names the
// provider kind, e.g. "openai".
func NewHostedStrategy(p llm.Provider, backend string) *HostedStrategy {
	return &HostedStrategy{provider: p, name: "hosted:" + backend}
}

func (s *HostedStrategy) Name() string { return s.name }

func (s *HostedStrategy) Attempt(ctx context.Context, req Request) ([]quiz.Item, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuizHosted)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      hostedSystemPrompt(req.Expected),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: hostedUserMessage(req)}},
		MaxTokens:   400,
		Temperature: 0.6,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	return quiz.Parse(resp.Text(), req.Expected), nil
}

// StructuredStrategy asks a hosted model for schema-validated JSON instead
// of the textual protocol.
type StructuredStrategy struct {
	provider llm.Provider
	name     string
}

// NewStructuredStrategy creates a structured-output tier over p.
func NewStructuredStrategy(p llm.Provider, backend string) *StructuredStrategy {
	return &StructuredStrategy{provider: p, name: "structured:" + backend}
}

func (s *StructuredStrategy) Name() string { return s.name }

// batchOutput is the raw JSON reply before cleaning.
type batchOutput struct {
	Questions []struct {
		Question    string   `json:"question"`
		Options     []string `json:"options"`
		AnswerIndex int      `json:"answer_index"`
	} `json:"questions"`
}

func (s *StructuredStrategy) Attempt(ctx context.Context, req Request) ([]quiz.Item, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuizStructured)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      structuredSystemPrompt(req.Expected),
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: structuredUserMessage(req)}},
		Schema:      BatchSchema,
		MaxTokens:   600,
		Temperature: 0.6,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}

	var out batchOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("%s: decode reply: %w", s.name, err)
	}

	items := make([]quiz.Item, 0, min(len(out.Questions), req.Expected))
	for _, q := range out.Questions {
		if len(items) == req.Expected {
			break
		}
		opts := make([]string, len(q.Options))
		for i, o := range q.Options {
			opts[i] = quiz.CleanOption(o)
		}
		items = append(items, quiz.Item{
			Question:    quiz.CleanQuestion(q.Question),
			Options:     opts,
			AnswerIndex: q.AnswerIndex,
		})
	}
	return items, nil
}

// LocalStrategy prompts a small locally served model in one of two styles
// and parses the continuation.
type LocalStrategy struct {
	provider llm.Provider
	name     string
	style    LocalStyle
}

// NewLocalStrategy creates a local-model tier over p.
func NewLocalStrategy(p llm.Provider, backend string, style LocalStyle) *LocalStrategy {
	if style != StyleCompletion {
		style = StyleInstruct
	}
	return &LocalStrategy{provider: p, name: "local:" + backend, style: style}
}

func (s *LocalStrategy) Name() string { return s.name }

func (s *LocalStrategy) Attempt(ctx context.Context, req Request) ([]quiz.Item, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuizLocal)

	maxTokens, temp := 220, 0.7
	if s.style == StyleCompletion {
		maxTokens, temp = 260, 0.8
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: localPrompt(s.style, req)}},
		MaxTokens:   maxTokens,
		Temperature: temp,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	return quiz.Parse(resp.Text(), req.Expected), nil
}
