package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderNone       = "none"
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Providers lists every accepted provider name.
var Providers = []string{
	ProviderNone, ProviderAnthropic, ProviderOpenAI,
	ProviderGemini, ProviderOpenRouter, ProviderMock,
}

// Config selects and configures the suggestion provider. The zero Provider
// and ProviderNone both disable LLM suggestions.
type Config struct {
	Provider string

	// APIKey and Model apply to whichever provider is selected. An empty
	// Model picks the provider default.
	APIKey  string
	Model   string
	BaseURL string

	Retry RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

const (
	defaultAnthropicModel  = "claude-haiku"
	defaultOpenAIModel     = "gpt-4o-mini"
	defaultGeminiModel     = "gemini-flash"
	defaultOpenRouterModel = "google/gemini-2.0-flash-exp"
	defaultOpenRouterURL   = "https://openrouter.ai/api/v1"
)

// DefaultConfig returns a disabled Config with retry and timeout defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderNone,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 20 * time.Second,
	}
}

// Enabled reports whether a real or mock provider is selected.
func (c Config) Enabled() bool {
	return c.Provider != "" && c.Provider != ProviderNone
}

// ModelOrDefault returns the configured model or the provider default.
func (c Config) ModelOrDefault() string {
	if c.Model != "" {
		return c.Model
	}
	switch c.Provider {
	case ProviderAnthropic:
		return defaultAnthropicModel
	case ProviderOpenAI:
		return defaultOpenAIModel
	case ProviderGemini:
		return defaultGeminiModel
	case ProviderOpenRouter:
		return defaultOpenRouterModel
	case ProviderMock:
		return "mock-model"
	}
	return ""
}

// DiscoverConfig fills an empty API key from the vendor's standard
// environment variable (ANTHROPIC_API_KEY and friends). When no provider is
// selected it picks the first vendor whose key is present, probing Gemini,
// OpenAI, Anthropic and OpenRouter in that order. The returned bool reports
// whether a usable provider was found.
func DiscoverConfig(cfg Config) (Config, bool) {
	envKeys := map[string]string{
		ProviderGemini:     "GEMINI_API_KEY",
		ProviderOpenAI:     "OPENAI_API_KEY",
		ProviderAnthropic:  "ANTHROPIC_API_KEY",
		ProviderOpenRouter: "OPENROUTER_API_KEY",
	}

	if cfg.Enabled() {
		if cfg.APIKey == "" {
			if env, ok := envKeys[cfg.Provider]; ok {
				cfg.APIKey = os.Getenv(env)
			}
		}
		return cfg, cfg.Validate() == nil
	}

	for _, p := range []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter} {
		if k := os.Getenv(envKeys[p]); k != "" {
			cfg.Provider = p
			cfg.APIKey = k
			return cfg, true
		}
	}
	return cfg, false
}

// Validate checks the provider name and that remote providers have a key.
func (c Config) Validate() error {
	switch c.Provider {
	case "", ProviderNone, ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.APIKey == "" {
			return fmt.Errorf("an API key is required for the %s provider (set SFASSESS_LLM_API_KEY)", c.Provider)
		}
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("LLM timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}
