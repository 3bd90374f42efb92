package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/llm"
)

var envKeys = []string{
	"LLM_PROVIDER", "LLM_MODEL", "MODEL_URL", "DATABASE_URL", "GENERATION_TIMEOUT",
	"PORT", "MAX_PAGES", "MAX_CHARS", "MAX_UPLOAD_BYTES",
	"HF_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"provider": "openai",
		"model": "gpt-4o-mini",
		"base_url": "http://localhost:8080/v1",
		"port": 9000,
		"max_pages": 3,
		"generation_timeout": "30s",
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, "http://localhost:8080/v1", cfg.BaseURL)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 3, cfg.MaxPages)
	assert.Equal(t, "30s", cfg.GenerationTimeout)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr string
	}{
		{"invalid JSON", func(t *testing.T) string { return writeConfig(t, `{ invalid json }`) }, "failed to parse config JSON"},
		{"file not found", func(*testing.T) string { return "/nonexistent/path/config.json" }, "failed to read config file"},
		{"empty path", func(*testing.T) string { return "" }, "config path is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(tt.path(t))
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"empty is valid", Config{}, ""},
		{"defaults are valid", Defaults(), ""},
		{"unknown provider", Config{Provider: "anthropic"}, "Provider"},
		{"bad base url", Config{BaseURL: "not a url"}, "BaseURL"},
		{"port out of range", Config{Port: 70000}, "Port"},
		{"negative pages", Config{MaxPages: -1}, "MaxPages"},
		{"tiny char budget", Config{MaxChars: 10}, "MaxChars"},
		{"bad timeout", Config{GenerationTimeout: "soon"}, "generation_timeout"},
		{"zero timeout", Config{GenerationTimeout: "0s"}, "generation_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{Provider: "gemini", Port: 9000}

	merged := partial.MergeWithDefaults(Defaults())

	// Custom values should be preserved
	assert.Equal(t, "gemini", merged.Provider)
	assert.Equal(t, 9000, merged.Port)

	// Default values should fill in empty fields
	assert.Equal(t, int64(DefaultMaxUploadBytes), merged.MaxUploadBytes)
	assert.Equal(t, DefaultMaxPages, merged.MaxPages)
	assert.Equal(t, DefaultMaxChars, merged.MaxChars)
	assert.Equal(t, "1m0s", merged.GenerationTimeout)
}

func TestFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("LLM_MODEL", "local-model")
	t.Setenv("MODEL_URL", "http://127.0.0.1:1234/v1")
	t.Setenv("PORT", "8081")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "local-model", cfg.Model)
	assert.Equal(t, "http://127.0.0.1:1234/v1", cfg.BaseURL)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, int64(2048), cfg.MaxUploadBytes)
	assert.Zero(t, cfg.MaxPages)
}

func TestFromEnv_InvalidNumber(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_PAGES", "many")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAX_PAGES")
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_MODEL", "env-model")
	t.Setenv("PORT", "7000")
	path := writeConfig(t, `{"port": 9000}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port, "file wins over environment")
	assert.Equal(t, "env-model", cfg.Model, "environment fills what the file leaves empty")
	assert.Equal(t, string(llm.ProviderHuggingFace), cfg.Provider, "defaults fill the rest")
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultGenerationTimeout, cfg.Timeout())
}

func TestLoad_InvalidMerged(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "bogus")

	_, err := Load("")
	assert.Error(t, err)
}

func TestTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, (&Config{GenerationTimeout: "30s"}).Timeout())
	assert.Equal(t, DefaultGenerationTimeout, (&Config{}).Timeout())
	assert.Equal(t, DefaultGenerationTimeout, (&Config{GenerationTimeout: "junk"}).Timeout())
}

func TestResolveAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("HF_API_KEY", "hf-key")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	assert.Equal(t, "explicit", (&Config{APIKey: "explicit", Provider: "gemini"}).ResolveAPIKey())
	assert.Equal(t, "gemini-key", (&Config{Provider: "gemini"}).ResolveAPIKey())
	assert.Equal(t, "hf-key", (&Config{Provider: "huggingface"}).ResolveAPIKey())
	assert.Equal(t, "hf-key", (&Config{}).ResolveAPIKey())
	assert.Equal(t, "", (&Config{Provider: "openai"}).ResolveAPIKey())
}

func TestLLMConfig(t *testing.T) {
	t.Run("huggingface default", func(t *testing.T) {
		cfg := (&Config{}).LLMConfig()
		assert.Equal(t, llm.ProviderHuggingFace, cfg.Provider)
		assert.Equal(t, llm.HuggingFaceRouterURL, cfg.BaseURL)
		assert.Equal(t, llm.DefaultHuggingFaceModel, cfg.GetModel(llm.TierStandard))
	})

	t.Run("overrides", func(t *testing.T) {
		cfg := (&Config{Provider: "openai", Model: "m", BaseURL: "http://x/v1"}).LLMConfig()
		assert.Equal(t, llm.ProviderOpenAI, cfg.Provider)
		assert.Equal(t, "http://x/v1", cfg.BaseURL)
		for _, tier := range []llm.ModelTier{llm.TierLite, llm.TierStandard, llm.TierAdvanced} {
			assert.Equal(t, "m", cfg.GetModel(tier))
		}
	})
}
