package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported validation locales.
const (
	LocaleEN   = "en"
	LocalePTBR = "pt_BR"
)

// Config models delega.yml.
type Config struct {
	Validation ValidationConfig `yaml:"validation" json:"validation"`
	Server     struct {
		Addr     string `yaml:"addr" json:"addr"`
		BasePath string `yaml:"base_path" json:"base_path"`
	} `yaml:"server" json:"server"`
	Webhooks []WebhookConfig `yaml:"webhooks" json:"webhooks,omitempty"`
}

// ValidationConfig selects the message set and limits used by the case validator.
type ValidationConfig struct {
	Locale             string                       `yaml:"locale" json:"locale"`
	ReasonMaxLength    int                          `yaml:"reason_max_length" json:"reason_max_length"`
	DepoimentMaxLength int                          `yaml:"depoiment_max_length" json:"depoiment_max_length"`
	MaxRequestedValue  float64                      `yaml:"max_requested_value" json:"max_requested_value"`
	Messages           map[string]map[string]string `yaml:"messages" json:"messages,omitempty"`
}

type WebhookConfig struct {
	URL            string   `yaml:"url" json:"url"`
	Events         []string `yaml:"events" json:"events,omitempty"`
	Secret         string   `yaml:"secret" json:"-"`
	Enabled        *bool    `yaml:"enabled" json:"enabled,omitempty"`
	TimeoutSeconds int      `yaml:"timeout_seconds" json:"timeout_seconds,omitempty"`
}

// MessagesFor returns the configured per-tag overrides for locale.
func (v ValidationConfig) MessagesFor(locale string) map[string]string {
	if v.Messages == nil {
		return nil
	}
	return v.Messages[locale]
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create it with delega init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOrDefault returns the workspace config, or the default one when the file does not exist.
func LoadOrDefault(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	switch c.Validation.Locale {
	case LocaleEN, LocalePTBR:
	default:
		return fmt.Errorf("config.validation.locale must be %s or %s, got %q", LocaleEN, LocalePTBR, c.Validation.Locale)
	}
	if c.Validation.ReasonMaxLength <= 0 {
		return fmt.Errorf("config.validation.reason_max_length must be positive")
	}
	if c.Validation.DepoimentMaxLength <= 0 {
		return fmt.Errorf("config.validation.depoiment_max_length must be positive")
	}
	if c.Validation.MaxRequestedValue < 0 {
		return fmt.Errorf("config.validation.max_requested_value must not be negative")
	}
	for locale, msgs := range c.Validation.Messages {
		if locale != LocaleEN && locale != LocalePTBR {
			return fmt.Errorf("config.validation.messages has unknown locale %s", locale)
		}
		for tag, msg := range msgs {
			if strings.TrimSpace(tag) == "" {
				return fmt.Errorf("config.validation.messages.%s has empty tag", locale)
			}
			if strings.TrimSpace(msg) == "" {
				return fmt.Errorf("config.validation.messages.%s.%s is empty", locale, tag)
			}
		}
	}
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("config.server.base_path must start with /")
	}
	for i, hook := range c.Webhooks {
		if strings.TrimSpace(hook.URL) == "" {
			return fmt.Errorf("webhook %d has empty url", i)
		}
		if hook.TimeoutSeconds < 0 {
			return fmt.Errorf("webhook %d has negative timeout", i)
		}
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "delega.yml")
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// Default returns the default Config struct.
func Default() *Config {
	var cfg Config
	_ = yaml.NewDecoder(bytes.NewBufferString(defaultTemplate)).Decode(&cfg)
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes. Missing keys keep
// their default values.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `validation:
  locale: pt_BR
  reason_max_length: 2000
  depoiment_max_length: 10000
  max_requested_value: 0

server:
  addr: 127.0.0.1:8080
  base_path: /v1

webhooks: []
`
