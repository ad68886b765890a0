package llm

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Backend names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderMock       = "mock"
)

// Config selects and configures one text-generation backend.
type Config struct {
	// Provider is one of the Provider* names, "none", or empty.
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Ollama     OllamaConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig also serves any OpenAI-compatible endpoint via BaseURL.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string // empty means https://openrouter.ai/api/v1
}

// OllamaConfig points at a locally served model.
type OllamaConfig struct {
	ServerURL string
	Model     string
}

type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig has every backend's default model filled in and no
// backend selected.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Ollama:     OllamaConfig{ServerURL: "http://localhost:11434", Model: "llama3.2:1b"},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// envBinding copies the first non-empty variable of keys into dst.
type envBinding struct {
	dst  *string
	keys []string
}

func (c *Config) envBindings() []envBinding {
	return []envBinding{
		{&c.Provider, []string{"QUIZGEN_PRIMARY"}},
		{&c.Anthropic.APIKey, []string{"QUIZGEN_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"}},
		{&c.Anthropic.Model, []string{"QUIZGEN_ANTHROPIC_MODEL"}},
		{&c.OpenAI.APIKey, []string{"QUIZGEN_OPENAI_API_KEY", "OPENAI_API_KEY"}},
		{&c.OpenAI.Model, []string{"QUIZGEN_OPENAI_MODEL", "QUIZ_OPENAI_MODEL"}},
		{&c.OpenAI.BaseURL, []string{"QUIZGEN_OPENAI_BASE_URL"}},
		{&c.Gemini.APIKey, []string{"QUIZGEN_GEMINI_API_KEY", "GEMINI_API_KEY"}},
		{&c.Gemini.Model, []string{"QUIZGEN_GEMINI_MODEL"}},
		{&c.OpenRouter.APIKey, []string{"QUIZGEN_OPENROUTER_API_KEY", "OPENROUTER_API_KEY"}},
		{&c.OpenRouter.Model, []string{"QUIZGEN_OPENROUTER_MODEL"}},
		{&c.Ollama.ServerURL, []string{"QUIZGEN_OLLAMA_URL"}},
		{&c.Ollama.Model, []string{"QUIZGEN_OLLAMA_MODEL"}},
	}
}

// ConfigFromEnv overlays QUIZGEN_* variables (and the vendors' usual
// *_API_KEY names) on DefaultConfig. Provider stays empty unless
// QUIZGEN_PRIMARY is set; see Discover.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, b := range cfg.envBindings() {
		if v := firstEnv(b.keys...); v != "" {
			*b.dst = v
		}
	}
	if d, err := time.ParseDuration(firstEnv("QUIZGEN_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}
	return cfg
}

// hostedByPriority is the order Discover probes API keys in.
var hostedByPriority = []string{ProviderOpenAI, ProviderGemini, ProviderAnthropic, ProviderOpenRouter}

// Discover fills in Provider from whichever API key is present when none
// is named. It reports false for "none" or when no key is set.
func (c Config) Discover() (Config, bool) {
	switch c.Provider {
	case "none":
		return Config{}, false
	case "":
		name, ok := lo.Find(hostedByPriority, func(p string) bool { return c.credential(p) != "" })
		if !ok {
			return Config{}, false
		}
		c.Provider = name
	}
	return c, true
}

// credentialVar returns the value a backend cannot start without and the
// variable that supplies it.
func (c Config) credentialVar(provider string) (value, env string) {
	switch provider {
	case ProviderAnthropic:
		return c.Anthropic.APIKey, "QUIZGEN_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return c.OpenAI.APIKey, "QUIZGEN_OPENAI_API_KEY"
	case ProviderGemini:
		return c.Gemini.APIKey, "QUIZGEN_GEMINI_API_KEY"
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey, "QUIZGEN_OPENROUTER_API_KEY"
	case ProviderOllama:
		return c.Ollama.Model, "QUIZGEN_OLLAMA_MODEL"
	}
	return "", ""
}

func (c Config) credential(provider string) string {
	v, _ := c.credentialVar(provider)
	return v
}

// Validate reports whether the selected backend can be constructed.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	value, env := c.credentialVar(c.Provider)
	if env == "" {
		return fmt.Errorf("unknown LLM backend %q", c.Provider)
	}
	if value == "" {
		return fmt.Errorf("%s is required for the %s backend", env, c.Provider)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
