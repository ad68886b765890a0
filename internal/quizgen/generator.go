// Package quizgen turns a caption into a batch of multiple-choice items.
//
// A Generator runs an ordered list of fallible strategies (hosted model,
// structured hosted model, local model) and stops at the first one that
// yields enough valid items. The synthesizer is always the final tier, so
// Generate only fails when the caption is empty.
package quizgen

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/showtell/quizgen/internal/facts"
	"github.com/showtell/quizgen/internal/llm"
	"github.com/showtell/quizgen/internal/quiz"
	"github.com/showtell/quizgen/internal/store"
	"github.com/showtell/quizgen/internal/synth"
	"github.com/showtell/quizgen/internal/taxonomy"
)

// SynthesizerTier names the final, infallible tier.
const SynthesizerTier = "synthesizer"

// Recorder receives one summary event per Generate call.
type Recorder interface {
	AppendGeneration(ctx context.Context, data store.GenerationEventData) error
}

// Generator is safe for concurrent use. It holds no per-call state.
type Generator struct {
	strategies []Strategy
	extractor  *facts.Extractor
	synth      *synth.Synthesizer
	minCount   int
	maxCount   int
	logger     zerolog.Logger
	recorder   Recorder
	seed       func() uint64
}

// Option configures a Generator.
type Option func(*Generator)

// WithTaxonomy replaces the default vocabulary.
func WithTaxonomy(tax *taxonomy.Taxonomy) Option {
	return func(g *Generator) {
		g.extractor = facts.New(tax)
		g.synth = synth.New(tax)
	}
}

// WithCountBounds sets the [lo, hi] range requested counts are clamped into.
func WithCountBounds(lo, hi int) Option {
	return func(g *Generator) {
		lo = max(lo, 1)
		g.minCount, g.maxCount = lo, max(hi, lo)
	}
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger.With().Str("component", "quizgen").Logger()
	}
}

// WithRecorder records a generation event per call.
func WithRecorder(r Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

// WithSeedSource sets where seeds for unseeded calls come from.
func WithSeedSource(f func() uint64) Option {
	return func(g *Generator) { g.seed = f }
}

// New creates a Generator. strategies run in order before the synthesizer.
func New(strategies []Strategy, opts ...Option) *Generator {
	tax := taxonomy.Default()
	g := &Generator{
		strategies: strategies,
		extractor:  facts.New(tax),
		synth:      synth.New(tax),
		minCount:   1,
		maxCount:   3,
		logger:     zerolog.Nop(),
		seed:       rand.Uint64,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Tiers lists strategy names in cascade order, ending with the synthesizer.
func (g *Generator) Tiers() []string {
	out := make([]string, 0, len(g.strategies)+1)
	for _, s := range g.strategies {
		out = append(out, s.Name())
	}
	return append(out, SynthesizerTier)
}

// CountBounds returns the clamp range for requested counts.
func (g *Generator) CountBounds() (lo, hi int) {
	return g.minCount, g.maxCount
}

type callOptions struct {
	seed    *uint64
	objects []string
}

// CallOption configures a single Generate call.
type CallOption func(*callOptions)

// WithSeed makes the call reproducible.
func WithSeed(seed uint64) CallOption {
	return func(o *callOptions) { o.seed = &seed }
}

// WithObjects supplies detected object labels to merge with caption hints.
func WithObjects(objects ...string) CallOption {
	return func(o *callOptions) { o.objects = append(o.objects, objects...) }
}

// Generate returns exactly count items (after clamping) for caption.
// The only error is quiz.ErrEmptyCaption.
func (g *Generator) Generate(ctx context.Context, caption string, count int, opts ...CallOption) (*quiz.Batch, error) {
	start := time.Now()

	caption = strings.TrimSpace(caption)
	if caption == "" {
		return nil, quiz.ErrEmptyCaption
	}

	var co callOptions
	for _, o := range opts {
		o(&co)
	}
	seed := g.seed()
	if co.seed != nil {
		seed = *co.seed
	}

	id := uuid.NewString()
	log := g.logger.With().Str("request_id", id).Logger()
	ctx = llm.WithRequestID(ctx, id)

	f := g.extractor.Extract(caption, co.objects...)
	req := Request{
		Caption:  caption,
		Expected: g.clamp(count),
		Facts:    f,
		Hint:     facts.HintLine(f),
		Rand:     newRand(seed),
	}

	tier, items, attempts := g.cascade(ctx, req, log)
	if items == nil {
		tier = SynthesizerTier
		items = g.synth.Synthesize(f, req.Expected, req.Rand)
	}

	kept, dropped := quiz.FilterBatch(items, req.Expected)
	final := g.synth.TopUp(f, kept, req.Expected, req.Rand)
	backfilled := len(final) - len(kept)

	latency := time.Since(start)
	log.Info().
		Str("tier", tier).
		Int("count", len(final)).
		Int("backfilled", backfilled).
		Int("dropped", dropped).
		Dur("latency", latency).
		Msg("quiz generated")

	if g.recorder != nil {
		err := g.recorder.AppendGeneration(context.WithoutCancel(ctx), store.GenerationEventData{
			RequestID:  id,
			Tier:       tier,
			Requested:  count,
			Returned:   len(final),
			Backfilled: backfilled,
			Dropped:    dropped,
			Attempts:   attempts,
			LatencyMs:  latency.Milliseconds(),
		})
		if err != nil {
			log.Warn().Err(err).Msg("failed to record generation event")
		}
	}

	return &quiz.Batch{Questions: final, Source: tier, RequestID: id}, nil
}

// cascade runs the strategies in order and returns the first tier that
// produced enough valid items, with its items shuffled. items is nil when
// every tier failed. attempts counts the tiers tried.
func (g *Generator) cascade(ctx context.Context, req Request, log zerolog.Logger) (tier string, items []quiz.Item, attempts int) {
	for _, s := range g.strategies {
		if err := ctx.Err(); err != nil {
			log.Debug().Err(err).Msg("context done, skipping remaining backend tiers")
			break
		}
		attempts++

		got, err := attempt(ctx, s, req)
		if err == nil {
			got, _ = quiz.FilterBatch(got, req.Expected)
			if len(got) < req.Expected {
				err = &quiz.InsufficientParseError{Got: len(got), Want: req.Expected}
			}
		}
		if err != nil {
			log.Debug().Str("tier", s.Name()).Err(err).Msg("tier failed, falling through")
			continue
		}

		out := make([]quiz.Item, 0, len(got))
		for _, it := range got {
			shuffled, err := quiz.ShuffleItem(it, req.Rand)
			if err != nil {
				log.Error().Str("tier", s.Name()).Err(err).Msg("dropping item")
				continue
			}
			out = append(out, shuffled)
		}
		log.Debug().Str("tier", s.Name()).Int("parsed", len(got)).Int("expected", req.Expected).Msg("tier succeeded")
		return s.Name(), out, attempts
	}
	return "", nil, attempts
}

// attempt runs one strategy, converting a panic into an error.
func attempt(ctx context.Context, s Strategy, req Request) (items []quiz.Item, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", s.Name(), r)
		}
	}()
	return s.Attempt(ctx, req)
}

func (g *Generator) clamp(count int) int {
	return min(max(count, g.minCount), g.maxCount)
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// IsEmptyCaption reports whether err is quiz.ErrEmptyCaption.
func IsEmptyCaption(err error) bool {
	return errors.Is(err, quiz.ErrEmptyCaption)
}
