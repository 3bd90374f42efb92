// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-builder/internal/llm"
)

// Default limits applied when neither the config file nor the environment sets them.
const (
	DefaultPort              = 8000
	DefaultMaxUploadBytes    = 10 << 20
	DefaultMaxPages          = 10
	DefaultMaxChars          = 6000
	DefaultGenerationTimeout = 60 * time.Second
)

// Config represents the configuration that can be loaded from a JSON file.
// All fields are optional; missing values come from the environment or defaults.
type Config struct {
	// Model backend; Model applies to every tier
	Provider string `json:"provider,omitempty" validate:"omitempty,oneof=huggingface openai gemini"`
	Model    string `json:"model,omitempty"`
	BaseURL  string `json:"base_url,omitempty" validate:"omitempty,url"`
	APIKey   string `json:"api_key,omitempty"`

	// Server
	Port           int   `json:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	MaxUploadBytes int64 `json:"max_upload_bytes,omitempty" validate:"omitempty,min=1"`

	// Extraction limits
	MaxPages int `json:"max_pages,omitempty" validate:"omitempty,min=1"`
	MaxChars int `json:"max_chars,omitempty" validate:"omitempty,min=100"`

	// GenerationTimeout bounds one model call, as a Go duration string ("60s")
	GenerationTimeout string `json:"generation_timeout,omitempty"`

	// Behavior
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Provider:          string(llm.ProviderHuggingFace),
		Port:              DefaultPort,
		MaxUploadBytes:    DefaultMaxUploadBytes,
		MaxPages:          DefaultMaxPages,
		MaxChars:          DefaultMaxChars,
		GenerationTimeout: DefaultGenerationTimeout.String(),
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. Unset variables leave
// fields empty so the result can be merged over file values.
func FromEnv() (Config, error) {
	cfg := Config{
		Provider:          os.Getenv("LLM_PROVIDER"),
		Model:             os.Getenv("LLM_MODEL"),
		BaseURL:           os.Getenv("MODEL_URL"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		GenerationTimeout: os.Getenv("GENERATION_TIMEOUT"),
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"PORT", &cfg.Port},
		{"MAX_PAGES", &cfg.MaxPages},
		{"MAX_CHARS", &cfg.MaxChars},
	}
	for _, v := range ints {
		raw := os.Getenv(v.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", v.name, err)
		}
		*v.dst = n
	}

	if raw := os.Getenv("MAX_UPLOAD_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
		}
		cfg.MaxUploadBytes = n
	}

	return cfg, nil
}

// APIKeyEnv returns the environment variable holding the key for a provider.
func APIKeyEnv(provider string) string {
	switch llm.Provider(provider) {
	case llm.ProviderGemini:
		return "GEMINI_API_KEY"
	case llm.ProviderOpenAI:
		return "OPENAI_API_KEY"
	default:
		return "HF_API_KEY"
	}
}

// ResolveAPIKey returns the configured key, falling back to the provider's
// environment variable.
func (c *Config) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return os.Getenv(APIKeyEnv(c.Provider))
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.GenerationTimeout != "" {
		d, err := time.ParseDuration(c.GenerationTimeout)
		if err != nil {
			return fmt.Errorf("config error: invalid 'generation_timeout': %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'generation_timeout' must be positive")
		}
	}

	return nil
}

// Timeout returns the generation timeout, or the default when unset or invalid.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.GenerationTimeout)
	if err != nil || d <= 0 {
		return DefaultGenerationTimeout
	}
	return d
}

// LLMConfig returns the model backend configuration for the provider,
// with the model and endpoint overrides applied.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.ConfigFor(llm.Provider(c.Provider))
	if c.Model != "" {
		cfg = cfg.WithAllModels(c.Model)
	}
	if c.BaseURL != "" {
		cfg = cfg.WithBaseURL(c.BaseURL)
	}
	return cfg
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer the config file and environment under CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.GenerationTimeout == "" {
		result.GenerationTimeout = defaults.GenerationTimeout
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxUploadBytes == 0 {
		result.MaxUploadBytes = defaults.MaxUploadBytes
	}
	if result.MaxPages == 0 {
		result.MaxPages = defaults.MaxPages
	}
	if result.MaxChars == 0 {
		result.MaxChars = defaults.MaxChars
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// Load layers the config file (optional), the environment and the defaults,
// in that order of precedence, and validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = *fileCfg
	}

	envCfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	merged := cfg.MergeWithDefaults(envCfg)
	merged = merged.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}
