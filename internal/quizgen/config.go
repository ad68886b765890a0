package quizgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/showtell/quizgen/internal/llm"
	"github.com/showtell/quizgen/internal/store"
	"github.com/showtell/quizgen/internal/taxonomy"
)

// Kind selects the strategy implementation for a tier.
type Kind int

const (
	KindHosted Kind = iota
	KindStructured
	KindLocal
)

func (k Kind) String() string {
	switch k {
	case KindHosted:
		return "hosted"
	case KindStructured:
		return "structured"
	case KindLocal:
		return "local"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// TierConfig describes one fallible tier of the cascade.
type TierConfig struct {
	Kind Kind
	LLM  llm.Config

	// Style only applies to KindLocal.
	Style LocalStyle
}

// Config controls how a Generator is assembled.
type Config struct {
	// Tiers run in order before the synthesizer. Empty means synthesizer only.
	Tiers []TierConfig

	MinCount int
	MaxCount int

	// TaxonomyPath optionally points at a YAML vocabulary overlay.
	TaxonomyPath string

	// CaptureBodies stores prompt and response bodies in the event log.
	CaptureBodies bool
}

// DefaultConfig returns a synthesizer-only Config with counts clamped to [1, 3].
func DefaultConfig() Config {
	return Config{
		MinCount: 1,
		MaxCount: 3,
	}
}

// ConfigFromEnv assembles a Config from the environment.
//
// The hosted tier comes from QUIZGEN_PRIMARY or API key discovery;
// QUIZGEN_STRUCTURED=1 turns it into a structured tier. QUIZGEN_SECONDARY=ollama
// adds a local tier. The older QUIZ_PROVIDER variable is honoured when
// QUIZGEN_PRIMARY and QUIZGEN_SECONDARY are unset: "openai" selects the
// OpenAI hosted tier, "flan" and "gpt2" select the local tier in instruct
// and completion style, and "dynamic" leaves only the synthesizer.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	base := llm.ConfigFromEnv()
	secondary := strings.ToLower(os.Getenv("QUIZGEN_SECONDARY"))
	style := LocalStyle(strings.ToLower(os.Getenv("QUIZGEN_LOCAL_STYLE")))

	if base.Provider == "" && secondary == "" {
		switch strings.ToLower(strings.TrimSpace(os.Getenv("QUIZ_PROVIDER"))) {
		case "openai":
			base.Provider = llm.ProviderOpenAI
		case "flan":
			base.Provider, secondary, style = "none", llm.ProviderOllama, StyleInstruct
		case "gpt2":
			base.Provider, secondary, style = "none", llm.ProviderOllama, StyleCompletion
		case "dynamic":
			base.Provider = "none"
		}
	}

	if hosted, ok := base.Discover(); ok {
		kind := KindHosted
		if envBool("QUIZGEN_STRUCTURED") {
			kind = KindStructured
		}
		cfg.Tiers = append(cfg.Tiers, TierConfig{Kind: kind, LLM: hosted})
	}

	if secondary == llm.ProviderOllama {
		local := base
		local.Provider = llm.ProviderOllama
		if style != StyleCompletion {
			style = StyleInstruct
		}
		cfg.Tiers = append(cfg.Tiers, TierConfig{Kind: KindLocal, LLM: local, Style: style})
	}

	if n, err := strconv.Atoi(os.Getenv("QUIZGEN_COUNT_MIN")); err == nil && n > 0 {
		cfg.MinCount = n
	}
	if n, err := strconv.Atoi(os.Getenv("QUIZGEN_COUNT_MAX")); err == nil && n > 0 {
		cfg.MaxCount = n
	}
	cfg.TaxonomyPath = os.Getenv("QUIZGEN_TAXONOMY")
	cfg.CaptureBodies = envBool("QUIZGEN_CAPTURE_BODIES")

	return cfg
}

// Offline returns c with every backend tier removed.
func (c Config) Offline() Config {
	c.Tiers = nil
	return c
}

// BuildStrategies constructs one strategy per tier. A tier whose provider
// cannot be created is skipped; the returned error joins every such failure
// and is informational, the returned strategies are always usable.
func BuildStrategies(ctx context.Context, cfg Config, repo store.EventRepo, logger zerolog.Logger) ([]Strategy, error) {
	var (
		out  []Strategy
		errs []error
	)
	for _, tier := range cfg.Tiers {
		p, err := llm.NewProvider(ctx, tier.LLM, repo,
			llm.CaptureBodies(cfg.CaptureBodies),
			llm.WithLogger(logger),
		)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s tier: %w", tier.Kind, err))
			continue
		}

		switch tier.Kind {
		case KindHosted:
			out = append(out, NewHostedStrategy(p, tier.LLM.Provider))
		case KindStructured:
			out = append(out, NewStructuredStrategy(p, tier.LLM.Provider))
		case KindLocal:
			out = append(out, NewLocalStrategy(p, tier.LLM.Provider, tier.Style))
		default:
			errs = append(errs, fmt.Errorf("unknown tier kind %s", tier.Kind))
		}
	}
	return out, errors.Join(errs...)
}

// NewFromConfig builds a Generator from cfg. Tiers that fail to initialize
// are logged and left out. Only an unreadable taxonomy file is fatal.
func NewFromConfig(ctx context.Context, cfg Config, repo store.EventRepo, logger zerolog.Logger) (*Generator, error) {
	opts := []Option{
		WithLogger(logger),
		WithCountBounds(cfg.MinCount, cfg.MaxCount),
	}

	if cfg.TaxonomyPath != "" {
		tax, err := taxonomy.Load(cfg.TaxonomyPath)
		if err != nil {
			return nil, fmt.Errorf("loading taxonomy: %w", err)
		}
		for _, w := range tax.Warnings() {
			logger.Warn().Str("path", cfg.TaxonomyPath).Msg(w)
		}
		opts = append(opts, WithTaxonomy(tax))
	}

	strategies, err := BuildStrategies(ctx, cfg, repo, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("some backend tiers are unavailable")
	}

	if repo != nil {
		opts = append(opts, WithRecorder(repo))
	}
	return New(strategies, opts...), nil
}

func envBool(key string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && b
}
