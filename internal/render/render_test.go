package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/showtell/quizgen/internal/quiz"
	"github.com/showtell/quizgen/internal/store"
)

func sampleBatch() *quiz.Batch {
	return &quiz.Batch{
		Source: "synthesizer",
		Questions: []quiz.Item{
			{Question: "What is the dog doing?", Options: []string{"Sleeping", "Running", "Eating"}, AnswerIndex: 1},
			{Question: "Where is this happening?", Options: []string{"In the park", "At school", "At the beach"}, AnswerIndex: 0},
		},
	}
}

func TestPretty(t *testing.T) {
	out := Pretty(sampleBatch(), Options{Caption: "A dog running in the park", ShowAnswers: true})

	assert.Contains(t, out, "Picture quiz")
	assert.Contains(t, out, "(synthesizer)")
	assert.Contains(t, out, "A dog running in the park")
	assert.Contains(t, out, "1) What is the dog doing?")
	assert.Contains(t, out, "2) Where is this happening?")
	assert.Contains(t, out, "B) Running  ✓")
	assert.Contains(t, out, "A) In the park  ✓")
	assert.Equal(t, 2, strings.Count(out, "✓"))
}

func TestPretty_HidesAnswers(t *testing.T) {
	out := Pretty(sampleBatch(), Options{})
	assert.NotContains(t, out, "✓")
	assert.Contains(t, out, "C) Eating")
}

func TestPlain_ParsesBack(t *testing.T) {
	b := sampleBatch()
	assert.Equal(t, b.Questions, quiz.Parse(Plain(b), 2))
}

func TestEvents(t *testing.T) {
	assert.Equal(t, "No backend events found.\n", Events(nil))

	out := Events([]store.LLMRequestEvent{{
		ID:        4,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		LLMRequestEventData: store.LLMRequestEventData{
			Provider: "openai", Model: "gpt-4o-mini", Purpose: "quiz-hosted",
			InputTokens: 120, OutputTokens: 80, LatencyMs: 900, Success: true,
		},
	}})
	assert.Contains(t, out, "quiz-hosted")
	assert.Contains(t, out, "gpt-4o-mini")
	assert.Contains(t, out, "✓")
}

func TestEvent_NotCaptured(t *testing.T) {
	out := Event(&store.LLMRequestEvent{ID: 1, LLMRequestEventData: store.LLMRequestEventData{
		Provider: "ollama", ErrorMessage: "connection refused",
	}})
	assert.Contains(t, out, "connection refused")
	assert.Equal(t, 2, strings.Count(out, "(not captured)"))
}

func TestModelCosts(t *testing.T) {
	out := ModelCosts([]store.LLMUsage{
		{Provider: "ollama", Model: "llama3.2:1b", Calls: 3, InputTokens: 900, OutputTokens: 300},
		{Provider: "openai", Model: "mystery-model", Calls: 1, InputTokens: 10, OutputTokens: 10},
	})
	assert.Contains(t, out, "ollama/llama3.2:1b")
	assert.Contains(t, out, "TOTAL (partial)")
	assert.Contains(t, out, "Pricing unavailable for: mystery-model")
}

func TestTiers(t *testing.T) {
	assert.Equal(t, "No quizzes generated yet.\n", Tiers(nil))

	out := Tiers([]store.TierUsage{
		{Tier: "hosted:openai", Calls: 5, AvgLatencyMs: 1200},
		{Tier: "synthesizer", Calls: 2, Backfilled: 1},
	})
	assert.Contains(t, out, "hosted:openai")
	assert.Contains(t, out, "synthesizer")
	assert.Contains(t, out, "TOTAL")
}

func TestGenerations(t *testing.T) {
	assert.Equal(t, "No quizzes generated yet.\n", Generations(nil))

	out := Generations([]store.GenerationEvent{{
		ID:        1,
		Timestamp: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		GenerationEventData: store.GenerationEventData{
			RequestID: "0f8c2a1e-77aa-4b4e-9c1d-2f9e1a3b5c7d",
			Tier:      "hosted:openai",
			Requested: 3,
			Returned:  3,
			LatencyMs: 950,
		},
	}})
	assert.Contains(t, out, "Recent Quizzes")
	assert.Contains(t, out, "0f8c2a1e  hosted:openai")
	assert.NotContains(t, out, "77aa")
	assert.Contains(t, out, "950")
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", FormatCost(0.0012))
	assert.Equal(t, "$1.50", FormatCost(1.5))
}
