package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// EnvPrefix prefixes every LLM environment variable.
const EnvPrefix = "AYUSH_"

// Config selects and configures the explainer's model provider.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "openrouter", "mock".
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one explanation request, retries included.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // OpenAI-compatible gateways
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures backoff for transient provider failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig picks small, cheap models; an explanation is a few
// hundred tokens.
func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     4 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 20 * time.Second,
	}
}

// envBinding ties one AYUSH_* variable to a config field.
type envBinding struct {
	name string
	dst  func(*Config) *string
}

var envBindings = []envBinding{
	{"LLM_PROVIDER", func(c *Config) *string { return &c.Provider }},
	{"ANTHROPIC_API_KEY", func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"ANTHROPIC_MODEL", func(c *Config) *string { return &c.Anthropic.Model }},
	{"OPENAI_API_KEY", func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"OPENAI_MODEL", func(c *Config) *string { return &c.OpenAI.Model }},
	{"OPENAI_BASE_URL", func(c *Config) *string { return &c.OpenAI.BaseURL }},
	{"GEMINI_API_KEY", func(c *Config) *string { return &c.Gemini.APIKey }},
	{"GEMINI_MODEL", func(c *Config) *string { return &c.Gemini.Model }},
	{"OPENROUTER_API_KEY", func(c *Config) *string { return &c.OpenRouter.APIKey }},
	{"OPENROUTER_MODEL", func(c *Config) *string { return &c.OpenRouter.Model }},
}

// ConfigFromEnv overlays the AYUSH_* variables on the defaults.
func ConfigFromEnv() Config {
	return configFrom(os.Getenv)
}

func configFrom(getenv func(string) string) Config {
	cfg := DefaultConfig()
	for _, b := range envBindings {
		if v := getenv(EnvPrefix + b.name); v != "" {
			*b.dst(&cfg) = v
		}
	}
	return cfg
}

// DiscoverConfig falls back to the vendors' own key variables, in the
// order Gemini, OpenAI, Anthropic, OpenRouter. ok is false when none is set.
func DiscoverConfig() (cfg Config, ok bool) {
	return discoverFrom(os.Getenv)
}

func discoverFrom(getenv func(string) string) (Config, bool) {
	cfg := DefaultConfig()
	switch {
	case getenv("GEMINI_API_KEY") != "":
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = getenv("GEMINI_API_KEY")
	case getenv("OPENAI_API_KEY") != "":
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = getenv("OPENAI_API_KEY")
	case getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = getenv("ANTHROPIC_API_KEY")
	case getenv("OPENROUTER_API_KEY") != "":
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = getenv("OPENROUTER_API_KEY")
	default:
		return Config{}, false
	}
	return cfg, true
}

// Resolve prefers explicit AYUSH_* settings and falls back to discovery.
// ok is false when no provider has a key.
func Resolve() (Config, bool) {
	cfg := ConfigFromEnv()
	if cfg.Validate() == nil {
		return cfg, true
	}
	return DiscoverConfig()
}

// Validate checks that the selected provider has a key.
func (c Config) Validate() error {
	var key string
	switch c.Provider {
	case "anthropic":
		key = c.Anthropic.APIKey
	case "openai":
		key = c.OpenAI.APIKey
	case "gemini":
		key = c.Gemini.APIKey
	case "openrouter":
		key = c.OpenRouter.APIKey
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s%s_API_KEY is required for the %s provider",
			EnvPrefix, strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
