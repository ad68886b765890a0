package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quizText = "1) What is the dog doing?\nA) Running\nB) Sleeping\nC) Eating\nAnswer: A"

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  "gpt-4o-mini",
	}
}

// chatCompletion replies with a single choice.
func chatCompletion(content, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}
}

func apiError(status int, typ string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": typ, "message": typ},
		})
	}
}

func quizRequest() Request {
	return Request{
		System:    "You turn a short image caption into kid-friendly MCQs.",
		Messages:  []Message{{Role: RoleUser, Content: `Caption: "A dog is running in the park".`}},
		MaxTokens: 256,
	}
}

func TestOpenAIProvider_TextReply(t *testing.T) {
	var body openai.ChatCompletionRequest
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		chatCompletion(quizText, "stop")(w, r)
	})

	ctx := WithRequestID(context.Background(), "req-42")
	resp, err := p.Generate(ctx, quizRequest())
	require.NoError(t, err)

	assert.Equal(t, quizText, string(resp.Content))
	assert.Equal(t, 40, resp.Usage.InputTokens)
	assert.Equal(t, 25, resp.Usage.OutputTokens)
	assert.Equal(t, "end", resp.StopReason)

	assert.Equal(t, "req-42", body.User)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, body.Messages[0].Role)
	assert.Nil(t, body.ResponseFormat)
}

func TestOpenAIProvider_TruncatedTextIsKept(t *testing.T) {
	p := newTestOpenAIProvider(t, chatCompletion(quizText, "length"))

	resp, err := p.Generate(context.Background(), quizRequest())
	require.NoError(t, err)
	assert.Equal(t, "max_tokens", resp.StopReason)
}

func TestOpenAIProvider_Structured(t *testing.T) {
	var body map[string]any
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		chatCompletion(validItem, "stop")(w, r)
	})

	req := quizRequest()
	req.Schema = itemSchema()
	resp, err := p.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.JSONEq(t, validItem, string(resp.Content))

	format, ok := body["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
}

func TestOpenAIProvider_StructuredTruncated(t *testing.T) {
	p := newTestOpenAIProvider(t, chatCompletion(`{"question":"What is`, "length"))

	req := quizRequest()
	req.Schema = itemSchema()
	_, err := p.Generate(context.Background(), req)
	var maxTok *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &maxTok)
}

func TestOpenAIProvider_InvalidReplies(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"content filter": chatCompletion(quizText, "content_filter"),
		"empty":          chatCompletion("   ", "stop"),
	}
	for name, h := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := newTestOpenAIProvider(t, h).Generate(context.Background(), quizRequest())
			var inv *ErrInvalidResponse
			assert.ErrorAs(t, err, &inv)
		})
	}
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	t.Run("rate limit", func(t *testing.T) {
		_, err := newTestOpenAIProvider(t, apiError(http.StatusTooManyRequests, "tokens")).Generate(context.Background(), quizRequest())
		var rl *ErrRateLimit
		assert.ErrorAs(t, err, &rl)
	})
	t.Run("unauthorized", func(t *testing.T) {
		_, err := newTestOpenAIProvider(t, apiError(http.StatusUnauthorized, "invalid_api_key")).Generate(context.Background(), quizRequest())
		var unauth *ErrUnauthorized
		assert.ErrorAs(t, err, &unauth)
	})
	t.Run("server error", func(t *testing.T) {
		_, err := newTestOpenAIProvider(t, apiError(http.StatusInternalServerError, "server_error")).Generate(context.Background(), quizRequest())
		var unavail *ErrProviderUnavailable
		assert.ErrorAs(t, err, &unavail)
	})
}

func TestNewOpenAIProvider(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAIConfig{})
	assert.Error(t, err)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4.1-nano", BaseURL: "https://openrouter.ai/api/v1"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1-nano", p.ModelID())
}
