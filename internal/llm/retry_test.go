package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

var down = &ErrProviderUnavailable{Err: errors.New("down")}

func TestRetry_Outcomes(t *testing.T) {
	ok := MockResponse{Content: json.RawMessage(quizText)}
	bad := MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage("bad"), Err: errors.New("bad")}}

	tests := []struct {
		name      string
		script    []MockResponse
		wantErr   error
		wantCalls int
	}{
		{"first attempt", []MockResponse{ok}, nil, 1},
		{"transient then success", []MockResponse{{Err: down}, ok}, nil, 2},
		{"rate limited then success", []MockResponse{{Err: &ErrRateLimit{RetryAfter: time.Millisecond}}, ok}, nil, 2},
		{"all attempts fail", []MockResponse{{Err: down}, {Err: down}, {Err: down}, ok}, &ErrProviderUnavailable{}, 3},
		{"truncation not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, ok}, &ErrMaxTokensExceeded{}, 1},
		{"bad credentials not retried", []MockResponse{{Err: &ErrUnauthorized{Err: errors.New("401")}}, ok}, &ErrUnauthorized{}, 1},
		{"invalid reply retried once", []MockResponse{bad, bad, ok}, &ErrInvalidResponse{}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.script...)
			resp, err := WithRetry(mock, retryConfig()).Generate(context.Background(), Request{})

			assert.Equal(t, tt.wantCalls, mock.CallCount())
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, quizText, string(resp.Content))
				return
			}
			require.Error(t, err)
			assert.IsType(t, tt.wantErr, err)
		})
	}
}

func TestRetry_CancelledContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: down}, MockResponse{Content: json.RawMessage("ok")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithRetry(mock, RetryConfig{MaxAttempts: 3, InitialWait: time.Second, MaxWait: time.Second, Multiplier: 2}).
		Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_BackoffCapsRetryAfter(t *testing.T) {
	r := &RetryProvider{config: retryConfig()}

	assert.Equal(t, 10*time.Millisecond, r.backoff(0, &ErrRateLimit{RetryAfter: time.Hour}))
	assert.Equal(t, 5*time.Millisecond, r.backoff(0, &ErrRateLimit{RetryAfter: 5 * time.Millisecond}))

	for attempt := range 6 {
		wait := r.backoff(attempt, down)
		assert.LessOrEqual(t, wait, 12*time.Millisecond)
		assert.GreaterOrEqual(t, wait, time.Duration(0))
	}
}

func TestRetry_ZeroAttemptsStillCalls(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage("ok")})
	_, err := WithRetry(mock, RetryConfig{}).Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, mock.CallCount())
	assert.Equal(t, "mock", WithRetry(mock, RetryConfig{}).ModelID())
}
