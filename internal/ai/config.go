package ai

import (
	"context"
	"errors"
	"fmt"
)

// Generation defaults.
const (
	DefaultModel           = "gemini-1.5-flash"
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 8192
	DefaultTopP            = 0.95
	DefaultTopK            = 40
)

var (
	// ErrValidation is returned when a request is out of range.
	ErrValidation = errors.New("invalid generation request")

	// ErrMissingAPIKey is returned before any network call when the selected
	// provider has no API key.
	ErrMissingAPIKey = errors.New("api key not configured")

	// ErrNoText is returned when the provider answered without any text,
	// for example because the response was blocked by safety filters.
	ErrNoText = errors.New("no text generated, response may have been blocked by safety filters")
)

// MissingKeyError names the provider and environment variable of a missing
// API key. It matches ErrMissingAPIKey.
type MissingKeyError struct {
	Provider string
	EnvVar   string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s API key not configured. Please set %s environment variable.", e.Provider, e.EnvVar)
}

// Is reports whether target is ErrMissingAPIKey.
func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingAPIKey
}

// GenerationConfig selects a model, its prompts and sampling parameters.
type GenerationConfig struct {
	ModelName       string  `json:"model_name"`
	SystemPrompt    string  `json:"system_prompt,omitempty"`
	UserPrompt      string  `json:"user_prompt"`
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int64   `json:"max_output_tokens"`
	TopP            float64 `json:"top_p"`
	TopK            int64   `json:"top_k"`
}

// NewGenerationConfig returns a config for userPrompt with every other
// parameter at its default.
func NewGenerationConfig(systemPrompt, userPrompt string) GenerationConfig {
	return GenerationConfig{
		ModelName:       DefaultModel,
		SystemPrompt:    systemPrompt,
		UserPrompt:      userPrompt,
		Temperature:     DefaultTemperature,
		MaxOutputTokens: DefaultMaxOutputTokens,
		TopP:            DefaultTopP,
		TopK:            DefaultTopK,
	}
}

// Validate checks the config against the ranges the providers accept.
func (c GenerationConfig) Validate() error {
	switch {
	case c.ModelName == "":
		return fmt.Errorf("%w: model_name is required", ErrValidation)
	case c.UserPrompt == "":
		return fmt.Errorf("%w: user_prompt is required", ErrValidation)
	case c.Temperature < 0 || c.Temperature > 2:
		return fmt.Errorf("%w: temperature must be between 0.0 and 2.0, got %g", ErrValidation, c.Temperature)
	case c.MaxOutputTokens <= 0:
		return fmt.Errorf("%w: max_output_tokens must be positive, got %d", ErrValidation, c.MaxOutputTokens)
	case c.TopP < 0 || c.TopP > 1:
		return fmt.Errorf("%w: top_p must be between 0.0 and 1.0, got %g", ErrValidation, c.TopP)
	case c.TopK <= 0:
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrValidation, c.TopK)
	}
	return nil
}

// SafetyRating is one safety category reported for a candidate.
type SafetyRating struct {
	Category    string `json:"category"`
	Probability string `json:"probability"`
}

// GenerationResponse is the provider-neutral result of a generation.
type GenerationResponse struct {
	Text           string         `json:"text"`
	ModelUsed      string         `json:"model_used"`
	PromptTokens   *int64         `json:"prompt_tokens,omitempty"`
	ResponseTokens *int64         `json:"response_tokens,omitempty"`
	FinishReason   string         `json:"finish_reason,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// MetaSafetyRatings is the metadata key holding []SafetyRating.
const MetaSafetyRatings = "safety_ratings"

// Generator produces text from a GenerationConfig.
type Generator interface {
	// Generate validates cfg and sends it to the provider.
	Generate(ctx context.Context, cfg GenerationConfig) (*GenerationResponse, error)
	// Configured reports whether an API key is present.
	Configured() bool
}

func int64Ptr(n int64) *int64 {
	return &n
}
