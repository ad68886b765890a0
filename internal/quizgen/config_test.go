package quizgen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showtell/quizgen/internal/llm"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		k, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, "QUIZGEN_") || strings.HasPrefix(k, "QUIZ_") || strings.HasSuffix(k, "_API_KEY") {
			t.Setenv(k, "")
		}
	}
}

func TestConfigFromEnv(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantKinds []Kind
		check     func(t *testing.T, cfg Config)
	}{
		{
			name:      "nothing configured",
			wantKinds: nil,
		},
		{
			name:      "discovered hosted",
			env:       map[string]string{"OPENAI_API_KEY": "sk-test"},
			wantKinds: []Kind{KindHosted},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, llm.ProviderOpenAI, cfg.Tiers[0].LLM.Provider)
			},
		},
		{
			name:      "structured",
			env:       map[string]string{"GEMINI_API_KEY": "g", "QUIZGEN_STRUCTURED": "1"},
			wantKinds: []Kind{KindStructured},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, llm.ProviderGemini, cfg.Tiers[0].LLM.Provider)
			},
		},
		{
			name:      "hosted plus local",
			env:       map[string]string{"QUIZGEN_ANTHROPIC_API_KEY": "a", "QUIZGEN_SECONDARY": "ollama", "QUIZGEN_LOCAL_STYLE": "completion"},
			wantKinds: []Kind{KindHosted, KindLocal},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, llm.ProviderOllama, cfg.Tiers[1].LLM.Provider)
				assert.Equal(t, StyleCompletion, cfg.Tiers[1].Style)
			},
		},
		{
			name:      "primary none",
			env:       map[string]string{"OPENAI_API_KEY": "sk-test", "QUIZGEN_PRIMARY": "none"},
			wantKinds: nil,
		},
		{
			name:      "legacy flan",
			env:       map[string]string{"OPENAI_API_KEY": "sk-test", "QUIZ_PROVIDER": "flan"},
			wantKinds: []Kind{KindLocal},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, StyleInstruct, cfg.Tiers[0].Style)
			},
		},
		{
			name:      "legacy gpt2",
			env:       map[string]string{"QUIZ_PROVIDER": "gpt2"},
			wantKinds: []Kind{KindLocal},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, StyleCompletion, cfg.Tiers[0].Style)
			},
		},
		{
			name:      "legacy dynamic",
			env:       map[string]string{"OPENAI_API_KEY": "sk-test", "QUIZ_PROVIDER": "dynamic"},
			wantKinds: nil,
		},
		{
			name:      "legacy openai model",
			env:       map[string]string{"OPENAI_API_KEY": "sk-test", "QUIZ_PROVIDER": "openai", "QUIZ_OPENAI_MODEL": "gpt-4o"},
			wantKinds: []Kind{KindHosted},
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "gpt-4o", cfg.Tiers[0].LLM.OpenAI.Model)
			},
		},
		{
			name:      "counts and extras",
			env:       map[string]string{"QUIZGEN_COUNT_MIN": "2", "QUIZGEN_COUNT_MAX": "6", "QUIZGEN_TAXONOMY": "/tmp/words.yaml", "QUIZGEN_CAPTURE_BODIES": "true"},
			wantKinds: nil,
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, 2, cfg.MinCount)
				assert.Equal(t, 6, cfg.MaxCount)
				assert.Equal(t, "/tmp/words.yaml", cfg.TaxonomyPath)
				assert.True(t, cfg.CaptureBodies)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := ConfigFromEnv()
			var kinds []Kind
			for _, tier := range cfg.Tiers {
				kinds = append(kinds, tier.Kind)
			}
			assert.Equal(t, tt.wantKinds, kinds)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestBuildStrategies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tiers = []TierConfig{
		{Kind: KindHosted, LLM: llm.Config{Provider: llm.ProviderMock}},
		{Kind: KindHosted, LLM: llm.Config{Provider: llm.ProviderOpenAI}}, // no key
		{Kind: KindStructured, LLM: llm.Config{Provider: llm.ProviderMock}},
		{Kind: KindLocal, LLM: llm.Config{Provider: llm.ProviderMock}},
	}

	strategies, err := BuildStrategies(context.Background(), cfg, nil, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hosted tier")

	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = s.Name()
	}
	assert.Equal(t, []string{"hosted:mock", "structured:mock", "local:mock"}, names)
}

func TestNewFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "words.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fruits: [mango]\n"), 0o644))

	cfg := DefaultConfig()
	cfg.TaxonomyPath = path
	cfg.MaxCount = 4

	g, err := NewFromConfig(context.Background(), cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, []string{SynthesizerTier}, g.Tiers())

	b, err := g.Generate(context.Background(), "Lunch time. Objects: mango, apple", 4, WithSeed(1))
	require.NoError(t, err)
	assertValidBatch(t, b, 4)

	cfg.TaxonomyPath = filepath.Join(dir, "missing.yaml")
	_, err = NewFromConfig(context.Background(), cfg, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestConfigOffline(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Tiers = []TierConfig{{Kind: KindHosted, LLM: llm.Config{Provider: llm.ProviderMock}}}
	assert.Empty(t, cfg.Offline().Tiers)
	assert.Len(t, cfg.Tiers, 1)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "hosted", KindHosted.String())
	assert.Equal(t, "structured", KindStructured.String())
	assert.Equal(t, "local", KindLocal.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
