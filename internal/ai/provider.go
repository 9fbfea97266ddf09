package ai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teemow/inboxcast/internal/instrumentation"
)

// Supported providers.
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// ProviderConfig selects and configures the text generation backend.
type ProviderConfig struct {
	Provider        string
	GeminiAPIKey    string
	AnthropicAPIKey string
	// Model overrides the provider's default model.
	Model string
	// Endpoint overrides the provider's API base URL.
	Endpoint string
}

// NewRewriterFromConfig builds the generator named by cfg.Provider and wraps
// it in a Rewriter. An empty provider selects Gemini.
func NewRewriterFromConfig(ctx context.Context, cfg ProviderConfig, logger *slog.Logger, metrics *instrumentation.Metrics) (*Rewriter, error) {
	switch cfg.Provider {
	case "", ProviderGemini:
		gen, err := NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.Endpoint, logger, metrics)
		if err != nil {
			return nil, err
		}
		return NewRewriter(gen, modelOr(cfg.Model, DefaultModel), logger), nil
	case ProviderAnthropic:
		gen := NewAnthropicGenerator(cfg.AnthropicAPIKey, cfg.Endpoint, logger, metrics)
		return NewRewriter(gen, modelOr(cfg.Model, DefaultAnthropicModel), logger), nil
	default:
		return nil, fmt.Errorf("unsupported ai provider %q (supported: %s, %s)", cfg.Provider, ProviderGemini, ProviderAnthropic)
	}
}

func modelOr(model, def string) string {
	if model == "" {
		return def
	}
	return model
}
