// Package llm provides centralized LLM configuration and client abstractions.
// All Gemini usage in the application goes through this package so model
// selection stays in one place.
package llm

import "fmt"

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for simple tasks: intent classification, short completions
	TierLite ModelTier = "lite"
	// TierStandard is for moderate reasoning: resume extraction, ATS scoring
	TierStandard ModelTier = "standard"
	// TierAdvanced is for complex reasoning: long-form coaching analysis
	TierAdvanced ModelTier = "advanced"
)

// ParseTier converts a string into a ModelTier.
// Used by CLI flags and config files.
func ParseTier(s string) (ModelTier, error) {
	switch ModelTier(s) {
	case TierLite, TierStandard, TierAdvanced:
		return ModelTier(s), nil
	default:
		return "", fmt.Errorf("unknown model tier %q (want lite, standard, or advanced)", s)
	}
}

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider. It is the only provider
// wired today; the Client interface leaves room for others.
const ProviderGemini Provider = "gemini"

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Models   map[ModelTier]string
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
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
	newConfig := &Config{
		Provider: c.Provider,
		Models:   make(map[ModelTier]string),
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}
