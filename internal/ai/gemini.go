package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/teemow/inboxcast/internal/instrumentation"
	"github.com/teemow/inboxcast/internal/logging"
)

// GeminiKeyEnv is the environment variable holding the Gemini API key.
const GeminiKeyEnv = "GEMINI_API_KEY"

// GeminiGenerator generates text with the Gemini generateContent API.
type GeminiGenerator struct {
	apiKey  string
	client  *genai.Client
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// NewGeminiGenerator creates a generator for apiKey. An empty key is
// accepted; Generate then fails with ErrMissingAPIKey. endpoint overrides
// the API base URL when non-empty.
func NewGeminiGenerator(ctx context.Context, apiKey, endpoint string, logger *slog.Logger, metrics *instrumentation.Metrics) (*GeminiGenerator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	g := &GeminiGenerator{
		apiKey:  apiKey,
		logger:  logging.WithService(logger, instrumentation.ServiceGemini),
		metrics: metrics,
	}
	if apiKey == "" {
		return g, nil
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if endpoint != "" {
		clientCfg.HTTPOptions.BaseURL = endpoint
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.client = client
	return g, nil
}

// Configured reports whether an API key is present.
func (g *GeminiGenerator) Configured() bool {
	return g.apiKey != ""
}

// Generate sends cfg to Gemini and returns the first candidate's text.
func (g *GeminiGenerator) Generate(ctx context.Context, cfg GenerationConfig) (resp *GenerationResponse, err error) {
	if !g.Configured() {
		return nil, &MissingKeyError{Provider: "Gemini", EnvVar: GeminiKeyEnv}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, call := instrumentation.BeginVendorCall(ctx, g.metrics,
		instrumentation.ServiceGemini, instrumentation.OperationGenerate,
		instrumentation.NewSpanAttributeBuilder().WithModel(cfg.ModelName).Build()...)
	defer func() { call.End(err) }()

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(cfg.Temperature)),
		MaxOutputTokens: int32(cfg.MaxOutputTokens),
		TopP:            genai.Ptr(float32(cfg.TopP)),
		TopK:            genai.Ptr(float32(cfg.TopK)),
	}
	if cfg.SystemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(cfg.SystemPrompt, genai.RoleUser)
	}

	res, err := g.client.Models.GenerateContent(ctx, cfg.ModelName, genai.Text(cfg.UserPrompt), genCfg)
	if err != nil {
		g.logger.Error("error generating content with Gemini", logging.Model(cfg.ModelName), logging.Err(err))
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	resp = geminiResponse(res, cfg.ModelName)
	if resp.Text == "" {
		g.logger.Warn("no text generated", logging.Model(cfg.ModelName), slog.String("finish_reason", resp.FinishReason))
		return nil, ErrNoText
	}
	return resp, nil
}

func geminiResponse(res *genai.GenerateContentResponse, model string) *GenerationResponse {
	out := &GenerationResponse{
		ModelUsed: model,
		Metadata:  map[string]any{MetaSafetyRatings: []SafetyRating{}},
	}
	if res == nil {
		return out
	}
	if res.UsageMetadata != nil {
		out.PromptTokens = int64Ptr(int64(res.UsageMetadata.PromptTokenCount))
		out.ResponseTokens = int64Ptr(int64(res.UsageMetadata.CandidatesTokenCount))
	}
	if len(res.Candidates) == 0 || res.Candidates[0] == nil {
		return out
	}

	cand := res.Candidates[0]
	out.FinishReason = string(cand.FinishReason)
	if cand.Content != nil {
		var sb strings.Builder
		for _, p := range cand.Content.Parts {
			if p != nil && !p.Thought {
				sb.WriteString(p.Text)
			}
		}
		out.Text = sb.String()
	}

	ratings := make([]SafetyRating, 0, len(cand.SafetyRatings))
	for _, r := range cand.SafetyRatings {
		if r != nil {
			ratings = append(ratings, SafetyRating{Category: string(r.Category), Probability: string(r.Probability)})
		}
	}
	out.Metadata[MetaSafetyRatings] = ratings
	return out
}
