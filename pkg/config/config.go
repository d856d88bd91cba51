package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for veridata-engine.
// Configuration can come from YAML file (config.yaml) or environment
// variables; environment variables override YAML values. Secrets (API keys)
// must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Model provider configuration
	AI AIConfig `yaml:"ai"`

	// Insight pipeline configuration
	Insights InsightsConfig `yaml:"insights"`
}

// AIConfig holds model provider settings. The engine is agnostic to the
// provider beyond passing the model identifier and token budget through.
type AIConfig struct {
	// Provider selects the client implementation: "openai" or "anthropic".
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:"openai"`

	// Endpoint is the base URL for OpenAI-compatible providers.
	Endpoint string `yaml:"endpoint" env:"AI_ENDPOINT" env-default:"https://api.openai.com/v1"`

	// Model is the model identifier, e.g. "gpt-4o-mini".
	Model string `yaml:"model" env:"AI_MODEL" env-default:"gpt-4o-mini"`

	// MaxTokens is the completion token budget per model call.
	MaxTokens int `yaml:"max_tokens" env:"AI_MAX_TOKENS" env-default:"500"`

	// Temperature for completions.
	Temperature float64 `yaml:"temperature" env:"AI_TEMPERATURE" env-default:"0.2"`

	// API keys are secrets and only come from the environment.
	OpenAIAPIKey    string `yaml:"-" env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `yaml:"-" env:"ANTHROPIC_API_KEY"`
}

// InsightsConfig holds insight pipeline settings.
type InsightsConfig struct {
	// MaxAttempts bounds the validation retry loop per request.
	MaxAttempts int `yaml:"max_attempts" env:"INSIGHTS_MAX_ATTEMPTS" env-default:"3"`

	// SampleLimit caps how many rows are embedded in a prompt.
	SampleLimit int `yaml:"sample_limit" env:"INSIGHTS_SAMPLE_LIMIT" env-default:"20"`

	// CacheMaxEntries bounds the insight cache; 0 disables eviction.
	CacheMaxEntries int `yaml:"cache_max_entries" env:"INSIGHTS_CACHE_MAX_ENTRIES" env-default:"1024"`
}

// APIKey returns the credential for the configured provider.
func (c *AIConfig) APIKey() string {
	if c.Provider == "anthropic" {
		return c.AnthropicAPIKey
	}
	return c.OpenAIAPIKey
}

// HasCredentials reports whether the configured provider has a credential.
// When false, insight requests fail fast before any model call.
func (c *AIConfig) HasCredentials() bool {
	return c.APIKey() != ""
}

// Load reads configuration from config.yaml with environment variable
// overrides, falling back to environment-only when no file exists. The
// version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validate checks settings the server cannot start without.
func (c *Config) validate() error {
	switch c.AI.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown AI provider %q (expected openai or anthropic)", c.AI.Provider)
	}

	if c.Insights.MaxAttempts < 1 {
		return fmt.Errorf("insights max_attempts must be at least 1, got %d", c.Insights.MaxAttempts)
	}
	if c.Insights.SampleLimit < 0 {
		return fmt.Errorf("insights sample_limit must not be negative, got %d", c.Insights.SampleLimit)
	}
	if c.Insights.CacheMaxEntries < 0 {
		return fmt.Errorf("insights cache_max_entries must not be negative, got %d", c.Insights.CacheMaxEntries)
	}

	return nil
}
