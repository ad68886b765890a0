package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	assert.Equal(t, "gemini-2.0-flash", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "gemini-2.5-pro", resolveModel("gemini-pro", geminiModels))
	assert.Equal(t, "gemini-1.5-flash-8b", resolveModel("gemini-1.5-flash-8b", geminiModels))
}

func TestToGeminiSchema_QuizItem(t *testing.T) {
	s := toGeminiSchema(itemSchema().Definition)

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"question", "options", "answer_index"}, s.Required)
	assert.Equal(t, []string{"answer_index", "options", "question"}, s.PropertyOrdering)

	opts := s.Properties["options"]
	require.NotNil(t, opts)
	assert.Equal(t, genai.TypeArray, opts.Type)
	assert.Equal(t, genai.TypeString, opts.Items.Type)
	require.NotNil(t, opts.MinItems)
	require.NotNil(t, opts.MaxItems)
	assert.EqualValues(t, 3, *opts.MinItems)
	assert.EqualValues(t, 3, *opts.MaxItems)

	answer := s.Properties["answer_index"]
	require.NotNil(t, answer)
	assert.Equal(t, genai.TypeInteger, answer.Type)
	assert.Empty(t, answer.Enum)
	require.NotNil(t, answer.Minimum)
	require.NotNil(t, answer.Maximum)
	assert.Equal(t, 0.0, *answer.Minimum)
	assert.Equal(t, 2.0, *answer.Maximum)
}

func TestToGeminiSchema_StringEnumAndSlices(t *testing.T) {
	s := toGeminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"mood": map[string]any{"type": "string", "enum": []string{"happy", "sad"}},
		},
		"required": []string{"mood"},
	})

	assert.Equal(t, []string{"mood"}, s.Required)
	mood := s.Properties["mood"]
	assert.Equal(t, []string{"happy", "sad"}, mood.Enum)
	assert.Equal(t, "enum", mood.Format)
}

func TestGeminiType(t *testing.T) {
	assert.Equal(t, genai.TypeBoolean, geminiType("boolean"))
	assert.Equal(t, genai.TypeNumber, geminiType("number"))
	assert.Equal(t, genai.TypeString, geminiType("null"))
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(t.Context(), GeminiConfig{})
	assert.Error(t, err)
}
