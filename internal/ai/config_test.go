package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerationConfig_Defaults(t *testing.T) {
	cfg := NewGenerationConfig("sys", "user")

	assert.Equal(t, "gemini-1.5-flash", cfg.ModelName)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, int64(8192), cfg.MaxOutputTokens)
	assert.Equal(t, 0.95, cfg.TopP)
	assert.Equal(t, int64(40), cfg.TopK)
	assert.NoError(t, cfg.Validate())
}

func TestGenerationConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*GenerationConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*GenerationConfig) {}},
		{name: "temperature lower bound", mutate: func(c *GenerationConfig) { c.Temperature = 0 }},
		{name: "temperature upper bound", mutate: func(c *GenerationConfig) { c.Temperature = 2 }},
		{name: "temperature too high", mutate: func(c *GenerationConfig) { c.Temperature = 2.1 }, wantErr: true},
		{name: "negative temperature", mutate: func(c *GenerationConfig) { c.Temperature = -0.1 }, wantErr: true},
		{name: "zero max tokens", mutate: func(c *GenerationConfig) { c.MaxOutputTokens = 0 }, wantErr: true},
		{name: "top_p bounds", mutate: func(c *GenerationConfig) { c.TopP = 1 }},
		{name: "top_p too high", mutate: func(c *GenerationConfig) { c.TopP = 1.5 }, wantErr: true},
		{name: "zero top_k", mutate: func(c *GenerationConfig) { c.TopK = 0 }, wantErr: true},
		{name: "empty user prompt", mutate: func(c *GenerationConfig) { c.UserPrompt = "" }, wantErr: true},
		{name: "empty model", mutate: func(c *GenerationConfig) { c.ModelName = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewGenerationConfig("", "prompt")
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestMissingKeyError(t *testing.T) {
	var err error = &MissingKeyError{Provider: "Gemini", EnvVar: GeminiKeyEnv}

	assert.True(t, errors.Is(err, ErrMissingAPIKey))
	assert.Equal(t, "Gemini API key not configured. Please set GEMINI_API_KEY environment variable.", err.Error())
}
