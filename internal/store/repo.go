package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact purpose match, empty for all
}

// LLMRequestEventData captures a single backend call.
type LLMRequestEventData struct {
	RequestID    string
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string

	// Bodies are empty unless capture was enabled.
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLMRequestEventData.
type LLMRequestEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// GenerationEventData summarizes one generate call. It never carries
// caption or quiz text.
type GenerationEventData struct {
	RequestID string
	Tier      string
	Requested int
	Returned  int

	// Backfilled counts items the synthesizer added after a backend tier.
	Backfilled int
	Dropped    int

	// Attempts is the number of backend tiers tried before Tier.
	Attempts  int
	LatencyMs int64
}

// GenerationEvent is a stored GenerationEventData.
type GenerationEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	GenerationEventData
}

// LLMUsage aggregates backend calls grouped by purpose or by model.
type LLMUsage struct {
	Purpose      string
	Provider     string
	Model        string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// TierUsage aggregates generation events by the tier that served them.
type TierUsage struct {
	Tier         string
	Calls        int
	Backfilled   int
	Dropped      int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to telemetry events.
type EventRepo interface {
	// AppendLLMRequest records a backend call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// AppendGeneration records the outcome of one generate call.
	AppendGeneration(ctx context.Context, data GenerationEventData) error

	// QueryLLMEvents returns backend calls, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one backend call, or nil if id is unknown.
	GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEvent, error)

	// QueryGenerations returns generation events, newest first.
	QueryGenerations(ctx context.Context, opts QueryOpts) ([]GenerationEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
	TierUsage(ctx context.Context) ([]TierUsage, error)
}
