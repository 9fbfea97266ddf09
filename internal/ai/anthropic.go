package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/teemow/inboxcast/internal/instrumentation"
	"github.com/teemow/inboxcast/internal/logging"
)

const (
	// AnthropicKeyEnv is the environment variable holding the Anthropic API key.
	AnthropicKeyEnv = "ANTHROPIC_API_KEY"

	// DefaultAnthropicModel is used when the anthropic provider is selected
	// without an explicit model.
	DefaultAnthropicModel = "claude-3-5-haiku-latest"
)

// AnthropicGenerator generates text with the Anthropic Messages API.
type AnthropicGenerator struct {
	apiKey  string
	client  anthropic.Client
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// NewAnthropicGenerator creates a generator for apiKey. An empty key is
// accepted; Generate then fails with ErrMissingAPIKey. baseURL overrides the
// API base URL when non-empty. Requests are not retried.
func NewAnthropicGenerator(apiKey, baseURL string, logger *slog.Logger, metrics *instrumentation.Metrics) *AnthropicGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicGenerator{
		apiKey:  apiKey,
		client:  anthropic.NewClient(opts...),
		logger:  logging.WithService(logger, instrumentation.ServiceAnthropic),
		metrics: metrics,
	}
}

// Configured reports whether an API key is present.
func (g *AnthropicGenerator) Configured() bool {
	return g.apiKey != ""
}

// Generate sends cfg as a single user message. TopP is never sent together
// with temperature.
func (g *AnthropicGenerator) Generate(ctx context.Context, cfg GenerationConfig) (resp *GenerationResponse, err error) {
	if !g.Configured() {
		return nil, &MissingKeyError{Provider: "Anthropic", EnvVar: AnthropicKeyEnv}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, call := instrumentation.BeginVendorCall(ctx, g.metrics,
		instrumentation.ServiceAnthropic, instrumentation.OperationGenerate,
		instrumentation.NewSpanAttributeBuilder().WithModel(cfg.ModelName).Build()...)
	defer func() { call.End(err) }()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(cfg.ModelName),
		MaxTokens: cfg.MaxOutputTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(cfg.UserPrompt)),
		},
		Temperature: anthropic.Float(cfg.Temperature),
		TopK:        anthropic.Int(cfg.TopK),
	}
	if cfg.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: cfg.SystemPrompt}}
	}

	msg, err := g.client.Messages.New(ctx, params)
	if err != nil {
		g.logger.Error("error generating content with Anthropic", logging.Model(cfg.ModelName), logging.Err(err))
		return nil, fmt.Errorf("anthropic create message: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		g.logger.Warn("no text generated", logging.Model(cfg.ModelName), slog.String("stop_reason", string(msg.StopReason)))
		return nil, ErrNoText
	}

	return &GenerationResponse{
		Text:           sb.String(),
		ModelUsed:      cfg.ModelName,
		PromptTokens:   int64Ptr(msg.Usage.InputTokens),
		ResponseTokens: int64Ptr(msg.Usage.OutputTokens),
		FinishReason:   string(msg.StopReason),
	}, nil
}
