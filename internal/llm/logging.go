package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/showtell/quizgen/internal/store"
)

// LoggingProvider records every backend call in the event log.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
	capture   bool
	logger    zerolog.Logger
}

// LoggingOption configures a LoggingProvider.
type LoggingOption func(*LoggingProvider)

// CaptureBodies stores full request and response text with each event.
// Off by default since responses contain generated quiz text.
func CaptureBodies(on bool) LoggingOption {
	return func(l *LoggingProvider) { l.capture = on }
}

// WithLogger sets the logger used to report event-store failures.
func WithLogger(logger zerolog.Logger) LoggingOption {
	return func(l *LoggingProvider) { l.logger = logger }
}

// WithLogging wraps a Provider with event logging. provider names the
// backend kind, e.g. "openai".
func WithLogging(p Provider, provider string, repo store.EventRepo, opts ...LoggingOption) Provider {
	l := &LoggingProvider{inner: p, provider: provider, eventRepo: repo, logger: zerolog.Nop()}
	for _, o := range opts {
		o(l)
	}
	return l
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		RequestID: RequestIDFrom(ctx),
		Provider:  l.provider,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if l.capture {
		data.RequestBody = serializeRequest(req)
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		if l.capture {
			data.ResponseBody = string(resp.Content)
		}
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}

	l.logger.Debug().
		Str("request_id", data.RequestID).
		Str("backend", l.provider).
		Str("model", data.Model).
		Str("purpose", data.Purpose).
		Int64("latency_ms", data.LatencyMs).
		Int("output_tokens", data.OutputTokens).
		Err(err).
		Msg("backend call")

	// Record even when ctx was cancelled mid-call.
	if logErr := l.eventRepo.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
		l.logger.Warn().Err(logErr).Str("backend", l.provider).Msg("could not record backend call")
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest renders req as "[role]" sections for the event log.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
			b.Write(def)
			b.WriteString("\n")
		}
	}

	return b.String()
}
