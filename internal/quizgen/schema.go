package quizgen

import "github.com/showtell/quizgen/internal/llm"

// BatchSchema is the JSON schema requested from the structured hosted tier.
var BatchSchema = &llm.Schema{
	Name:        "quiz-batch",
	Description: "Kid-friendly multiple-choice questions about an image caption",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "One short question ending with a question mark",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    3,
							"maxItems":    3,
							"description": "Exactly three different answer choices",
						},
						"answer_index": map[string]any{
							"type":        "integer",
							"enum":        []any{0, 1, 2},
							"description": "0-based index of the correct option",
						},
					},
					"required":             []any{"question", "options", "answer_index"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
