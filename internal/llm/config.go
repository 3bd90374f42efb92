// Package llm provides model backend configuration and client abstractions.
// Backends take a prompt and return the model's text, nothing more.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: classification, short summaries
	TierLite ModelTier = "lite"
	// TierStandard is for structured output such as resume extraction
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long or ambiguous documents
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderHuggingFace is the Hugging Face inference router (OpenAI-compatible)
	ProviderHuggingFace Provider = "huggingface"
	// ProviderOpenAI is the OpenAI API or any compatible server
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// HuggingFaceRouterURL is the OpenAI-compatible endpoint of the Hugging Face router.
const HuggingFaceRouterURL = "https://router.huggingface.co/v1"

// DefaultHuggingFaceModel is a small instruction model served through the router.
const DefaultHuggingFaceModel = "Qwen/Qwen3-1.7B:featherless-ai"

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
	// BaseURL overrides the provider endpoint. Ignored by Gemini.
	BaseURL string
}

// DefaultConfig returns the default configuration (Hugging Face router)
func DefaultConfig() *Config {
	return DefaultHuggingFaceConfig()
}

// DefaultHuggingFaceConfig returns the Hugging Face router configuration.
// Every tier uses the same model.
func DefaultHuggingFaceConfig() *Config {
	return &Config{
		Provider: ProviderHuggingFace,
		BaseURL:  HuggingFaceRouterURL,
		Models: map[ModelTier]string{
			TierLite:     DefaultHuggingFaceModel,
			TierStandard: DefaultHuggingFaceModel,
			TierAdvanced: DefaultHuggingFaceModel,
		},
	}
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o-mini",
			TierAdvanced: "gpt-4o",
		},
	}
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// ConfigFor returns the default configuration of a provider.
// Unknown providers get DefaultConfig.
func ConfigFor(p Provider) *Config {
	switch p {
	case ProviderOpenAI:
		return DefaultOpenAIConfig()
	case ProviderGemini:
		return DefaultGeminiConfig()
	default:
		return DefaultConfig()
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := c.clone()
	newConfig.Models[tier] = model
	return newConfig
}

// WithAllModels returns a new Config using model for every tier
func (c *Config) WithAllModels(model string) *Config {
	newConfig := c.clone()
	for _, tier := range []ModelTier{TierLite, TierStandard, TierAdvanced} {
		newConfig.Models[tier] = model
	}
	return newConfig
}

// WithBaseURL returns a new Config pointing at a different endpoint
func (c *Config) WithBaseURL(baseURL string) *Config {
	newConfig := c.clone()
	newConfig.BaseURL = baseURL
	return newConfig
}

func (c *Config) clone() *Config {
	newConfig := &Config{
		Provider: c.Provider,
		BaseURL:  c.BaseURL,
		Models:   make(map[ModelTier]string, len(c.Models)),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	return newConfig
}
