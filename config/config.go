// Package config loads the voice agent service configuration from a YAML file
// with environment variable overrides for deployment-specific values.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	DefaultListenAddr      = ":8080"
	DefaultMetricsAddr     = ":9090"
	DefaultModel           = "gpt-4o"
	DefaultBaseURL         = "https://api.openai.com/v1"
	DefaultAPIKeyEnv       = "OPENAI_API_KEY"
	DefaultTemperature     = 0.7
	DefaultMaxTokens       = 250
	DefaultWebhookTimeout  = 10 * time.Second
	DefaultStreamTimeout   = 60 * time.Second
	DefaultGreetingTimeout = 10 * time.Second
)

// Config is the top-level service configuration.
type Config struct {
	// ListenAddr is the address the websocket server binds to.
	ListenAddr string `yaml:"listen_addr"`

	// MetricsAddr is the address the Prometheus exporter binds to.
	// Empty disables the exporter.
	MetricsAddr string `yaml:"metrics_addr"`

	Provider ProviderConfig `yaml:"provider"`
	Webhooks WebhookConfig  `yaml:"webhooks"`
}

// ProviderConfig configures the generative backend.
type ProviderConfig struct {
	// Model is the backend model identifier.
	Model string `yaml:"model"`

	// BaseURL is the chat completions API base URL.
	BaseURL string `yaml:"base_url"`

	// APIKeyEnv names the environment variable holding the API key.
	// The key itself never appears in configuration files.
	APIKeyEnv string `yaml:"api_key_env"`

	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`

	// StreamTimeout bounds one full streaming turn.
	StreamTimeout time.Duration `yaml:"stream_timeout"`
}

// WebhookConfig configures the external function providers.
type WebhookConfig struct {
	// CalendarURL receives calendar availability checks.
	CalendarURL string `yaml:"calendar_url"`

	// CRMURL receives contact record lookups.
	CRMURL string `yaml:"crm_url"`

	// Timeout bounds each webhook round-trip.
	Timeout time.Duration `yaml:"timeout"`
}

// Load reads configuration from the given YAML file and applies defaults and
// environment overrides. A missing path yields a default configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.MetricsAddr == "" {
		c.MetricsAddr = DefaultMetricsAddr
	}
	if c.Provider.Model == "" {
		c.Provider.Model = DefaultModel
	}
	if c.Provider.BaseURL == "" {
		c.Provider.BaseURL = DefaultBaseURL
	}
	if c.Provider.APIKeyEnv == "" {
		c.Provider.APIKeyEnv = DefaultAPIKeyEnv
	}
	if c.Provider.Temperature == 0 {
		c.Provider.Temperature = DefaultTemperature
	}
	if c.Provider.MaxTokens == 0 {
		c.Provider.MaxTokens = DefaultMaxTokens
	}
	if c.Provider.StreamTimeout == 0 {
		c.Provider.StreamTimeout = DefaultStreamTimeout
	}
	if c.Webhooks.Timeout == 0 {
		c.Webhooks.Timeout = DefaultWebhookTimeout
	}
}

// applyEnv overrides file values with environment variables when set.
func (c *Config) applyEnv() {
	if v := os.Getenv("VOICEAGENT_LISTEN_ADDR"); v != "" {
		c.ListenAddr = v
	}
	if v := os.Getenv("VOICEAGENT_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
	if v := os.Getenv("VOICEAGENT_CALENDAR_WEBHOOK_URL"); v != "" {
		c.Webhooks.CalendarURL = v
	}
	if v := os.Getenv("VOICEAGENT_CRM_WEBHOOK_URL"); v != "" {
		c.Webhooks.CRMURL = v
	}
	if v := os.Getenv("VOICEAGENT_MODEL"); v != "" {
		c.Provider.Model = v
	}
}

// APIKey resolves the backend API key from the configured environment variable.
func (c *Config) APIKey() string {
	return os.Getenv(c.Provider.APIKeyEnv)
}
