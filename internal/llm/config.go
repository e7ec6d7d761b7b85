package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
	ProviderMock       = "mock"
)

var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "google/gemini-2.0-flash-exp",
	ProviderGemini:     "gemini-flash",
}

// Config selects and configures one provider. An empty Provider disables
// generation.
type Config struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Retry    RetryConfig
	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// RetryConfig is the exponential backoff policy.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig has no provider selected.
func DefaultConfig() Config {
	return Config{
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// Enabled reports whether a provider is selected.
func (c Config) Enabled() bool { return c.Provider != "" }

// ModelOrDefault returns the configured model or the provider default.
func (c Config) ModelOrDefault() string {
	if c.Model != "" {
		return c.Model
	}
	return defaultModels[c.Provider]
}

// ConfigFromEnv reads PIXELGIFT_LLM_* variables. When no provider is named
// it falls back to the first vendor key found in the environment.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.Provider = os.Getenv("PIXELGIFT_LLM_PROVIDER")
	cfg.APIKey = os.Getenv("PIXELGIFT_LLM_API_KEY")
	cfg.Model = os.Getenv("PIXELGIFT_LLM_MODEL")
	cfg.BaseURL = os.Getenv("PIXELGIFT_LLM_BASE_URL")
	if d, err := time.ParseDuration(os.Getenv("PIXELGIFT_LLM_TIMEOUT")); err == nil && d > 0 {
		cfg.Timeout = d
	}

	vendorKeys := []struct{ provider, env string }{
		{ProviderGemini, "GEMINI_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{ProviderOpenRouter, "OPENROUTER_API_KEY"},
	}
	for _, vk := range vendorKeys {
		k := os.Getenv(vk.env)
		if k == "" {
			continue
		}
		if cfg.Provider == "" {
			cfg.Provider = vk.provider
		}
		if cfg.Provider == vk.provider && cfg.APIKey == "" {
			cfg.APIKey = k
		}
	}
	return cfg
}

// Validate checks that the selected provider can be constructed.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderOpenRouter, ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("PIXELGIFT_LLM_API_KEY is required for the %s provider", c.Provider)
		}
		return nil
	case "":
		return fmt.Errorf("no LLM provider configured")
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}
