// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ModelConfig identifies one model backend plus its generation parameters.
// Immutable; optional fields are explicit and zero means "unset" — the
// runner omits them from the request rather than sending zeros.
type ModelConfig struct {
	// Name is the model identifier sent to the backend
	// (e.g. "claude-opus-4-20250514").
	Name string `json:"name" yaml:"name"`

	// Service tags the provider the model belongs to (e.g. "anthropic",
	// "google", "openai"). Multiple models may share a service.
	Service string `json:"service" yaml:"service"`

	// ReasoningTokens is the reasoning-token budget for models that
	// support extended reasoning. Zero leaves the backend default.
	ReasoningTokens int `json:"reasoning_tokens,omitempty" yaml:"reasoning_tokens,omitempty"`

	// MaxCompletionTokens caps the completion length. Zero leaves the
	// backend default.
	MaxCompletionTokens int `json:"max_completion_tokens,omitempty" yaml:"max_completion_tokens,omitempty"`

	// MaxTokens caps the total token count. Zero leaves the backend default.
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// String returns the human-readable model identity used in report headings.
func (m ModelConfig) String() string {
	return m.Name
}

// DefaultModels is the model set used when no models are configured:
// one reviewer per major provider, with a large reasoning budget for the
// OpenAI reasoning model.
func DefaultModels() []ModelConfig {
	return []ModelConfig{
		{Name: "claude-opus-4-20250514", Service: "anthropic"},
		{Name: "gemini-2.0-flash-exp", Service: "google"},
		{
			Name:                "o1-preview",
			Service:             "openai",
			ReasoningTokens:     100_000,
			MaxCompletionTokens: 100_000,
			MaxTokens:           32_768,
		},
	}
}
