package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/teemow/inboxcast/internal/content"
	"github.com/teemow/inboxcast/internal/logging"
)

// Enhancement kinds and the metadata keys they add.
const (
	EnhanceSummary  = "summary"
	EnhanceTags     = "tags"
	EnhanceAnalysis = "analysis"

	MetaAISummary  = "ai_summary"
	MetaAITags     = "ai_tags"
	MetaAIAnalysis = "ai_analysis"
)

// DefaultSummaryWords bounds Summarize when no positive limit is given.
const DefaultSummaryWords = 100

const (
	tagsContentRunes     = 500
	analysisContentRunes = 1000
)

// Rewriter summarizes, enriches and composes content with a Generator.
type Rewriter struct {
	gen    Generator
	model  string
	logger *slog.Logger
}

// NewRewriter creates a Rewriter that sends every request to model.
func NewRewriter(gen Generator, model string, logger *slog.Logger) *Rewriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Rewriter{gen: gen, model: modelOr(model, DefaultModel), logger: logger}
}

// Configured reports whether the underlying generator has an API key.
func (r *Rewriter) Configured() bool {
	return r.gen.Configured()
}

// Model returns the model used for every request.
func (r *Rewriter) Model() string {
	return r.model
}

func (r *Rewriter) config(systemPrompt, userPrompt string) GenerationConfig {
	cfg := NewGenerationConfig(systemPrompt, userPrompt)
	cfg.ModelName = r.model
	return cfg
}

// Summarize condenses text to at most maxWords words.
// A non-positive maxWords selects DefaultSummaryWords.
func (r *Rewriter) Summarize(ctx context.Context, text string, maxWords int) (string, error) {
	if maxWords <= 0 {
		maxWords = DefaultSummaryWords
	}
	cfg := r.config(
		fmt.Sprintf("You are a helpful assistant that creates concise summaries. Summarize the following content in %d words or less.", maxWords),
		"Please summarize this content:\n\n"+text,
	)
	resp, err := r.gen.Generate(ctx, cfg)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Enhance returns a copy of item whose metadata carries the AI output for
// kind. Existing metadata keys are kept. An item without content is returned
// unchanged. Generation failures are logged and the unenriched copy is
// returned, except for a missing API key which is reported.
func (r *Rewriter) Enhance(ctx context.Context, item *content.Item, kind string) (*content.Item, error) {
	switch kind {
	case EnhanceSummary, EnhanceTags, EnhanceAnalysis:
	default:
		return nil, fmt.Errorf("%w: enhancement_type must be one of %s, %s, %s, got %q",
			ErrValidation, EnhanceSummary, EnhanceTags, EnhanceAnalysis, kind)
	}
	if item == nil || item.Content == nil || *item.Content == "" {
		return item, nil
	}

	enhanced := item.Clone()
	if enhanced.Metadata == nil {
		enhanced.Metadata = map[string]any{}
	}
	logger := logging.WithOperation(r.logger, "enhance")

	text := *item.Content
	title := item.TitleOr("None")

	switch kind {
	case EnhanceSummary:
		summary, err := r.Summarize(ctx, text, 0)
		if err != nil {
			return r.enhanceFailed(logger, enhanced, kind, err)
		}
		enhanced = enhanced.WithMetadata(MetaAISummary, summary)

	case EnhanceTags:
		resp, err := r.gen.Generate(ctx, r.config(
			"You are a content tagger. Generate 3-5 relevant tags for content. Return only the tags separated by commas.",
			fmt.Sprintf("Generate tags for this content:\n\nTitle: %s\nContent: %s...", title, truncateRunes(text, tagsContentRunes)),
		))
		if err != nil {
			return r.enhanceFailed(logger, enhanced, kind, err)
		}
		enhanced = enhanced.WithMetadata(MetaAITags, splitTags(resp.Text))

	case EnhanceAnalysis:
		resp, err := r.gen.Generate(ctx, r.config(
			"You are a content analyst. Provide a brief analysis of the content including tone, key themes, and target audience.",
			fmt.Sprintf("Analyze this content:\n\nTitle: %s\nContent: %s...", title, truncateRunes(text, analysisContentRunes)),
		))
		if err != nil {
			return r.enhanceFailed(logger, enhanced, kind, err)
		}
		enhanced = enhanced.WithMetadata(MetaAIAnalysis, resp.Text)
	}
	return enhanced, nil
}

func (r *Rewriter) enhanceFailed(logger *slog.Logger, item *content.Item, kind string, err error) (*content.Item, error) {
	if errors.Is(err, ErrMissingAPIKey) {
		return nil, err
	}
	logger.Error("error enhancing content item", slog.String("enhancement_type", kind), logging.Err(err))
	return item, nil
}

func splitTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		tags = append(tags, strings.TrimSpace(p))
	}
	return tags
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Compose styles, tones and languages.
var (
	composeStyles = map[string]string{
		"summary":   "Create a concise summary of the following content items",
		"detailed":  "Create a detailed analysis and overview of the following content items",
		"headlines": "Create engaging headlines and brief summaries for the following content items",
	}

	composeTones = map[string]string{
		"neutral":      "in a neutral, informative tone",
		"friendly":     "in a friendly, conversational tone",
		"professional": "in a professional, business tone",
		"energetic":    "in an energetic, enthusiastic tone",
		"casual":       "in a casual, relaxed tone",
	}

	composeLanguages = map[string]string{
		"en-US": "in English",
		"zh-CN": "in Chinese (Simplified)",
		"ja-JP": "in Japanese",
		"ko-KR": "in Korean",
		"es-ES": "in Spanish",
		"fr-FR": "in French",
		"de-DE": "in German",
	}
)

// Compose defaults.
const (
	DefaultComposeStyle    = "summary"
	DefaultComposeTone     = "neutral"
	DefaultComposeLanguage = "en-US"
	DefaultComposeWords    = 500

	composeTemperature = 0.7
	composeTokenCap    = 1000
	composeTokenSlack  = 100
)

// ComposeRequest asks for podcast-style content built from source items.
// Items are loose maps as received from the mail and feed endpoints.
type ComposeRequest struct {
	ContentItems []map[string]any `json:"content_items"`
	Tone         string           `json:"tone,omitempty"`
	Language     string           `json:"language,omitempty"`
	MaxWords     *int             `json:"max_words,omitempty"`
	Style        string           `json:"style,omitempty"`
}

// ComposeResponse is the composed content and its statistics.
type ComposeResponse struct {
	GeneratedContent string `json:"generated_content"`
	WordCount        int    `json:"word_count"`
	SourceCount      int    `json:"source_count"`
	Success          bool   `json:"success"`
}

// WithDefaults returns a copy with empty fields set to their defaults.
func (req ComposeRequest) WithDefaults() ComposeRequest {
	if req.Tone == "" {
		req.Tone = DefaultComposeTone
	}
	if req.Language == "" {
		req.Language = DefaultComposeLanguage
	}
	if req.Style == "" {
		req.Style = DefaultComposeStyle
	}
	if req.MaxWords == nil {
		n := DefaultComposeWords
		req.MaxWords = &n
	}
	return req
}

// Validate checks a request that already has its defaults applied.
func (req ComposeRequest) Validate() error {
	if req.ContentItems == nil {
		return fmt.Errorf("%w: content_items is required", ErrValidation)
	}
	if _, ok := composeStyles[req.Style]; !ok {
		return fmt.Errorf("%w: style must be one of %s, got %q", ErrValidation, keys(composeStyles), req.Style)
	}
	if _, ok := composeTones[req.Tone]; !ok {
		return fmt.Errorf("%w: tone must be one of %s, got %q", ErrValidation, keys(composeTones), req.Tone)
	}
	if _, ok := composeLanguages[req.Language]; !ok {
		return fmt.Errorf("%w: language must be one of %s, got %q", ErrValidation, keys(composeLanguages), req.Language)
	}
	if req.MaxWords == nil || *req.MaxWords <= 0 {
		return fmt.Errorf("%w: max_words must be positive", ErrValidation)
	}
	return nil
}

func keys(m map[string]string) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

// Compose turns the request's items into audio-ready content.
func (r *Rewriter) Compose(ctx context.Context, req ComposeRequest) (*ComposeResponse, error) {
	req = req.WithDefaults()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cfg := r.config(ComposeSystemPrompt(req), ComposeUserPrompt(req))
	cfg.Temperature = composeTemperature
	cfg.MaxOutputTokens = int64(min(composeTokenCap, *req.MaxWords+composeTokenSlack))

	resp, err := r.gen.Generate(ctx, cfg)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("composed content", logging.Count(len(req.ContentItems)), logging.Model(cfg.ModelName))
	return &ComposeResponse{
		GeneratedContent: resp.Text,
		WordCount:        len(strings.Fields(resp.Text)),
		SourceCount:      len(req.ContentItems),
		Success:          true,
	}, nil
}

// ComposeSystemPrompt renders the system prompt of a defaulted request.
func ComposeSystemPrompt(req ComposeRequest) string {
	return fmt.Sprintf("You are an AI content creator for InboxCast, a service that converts emails and RSS feeds into podcast-style content. \n"+
		"%s %s %s.\n"+
		"Keep the content under %d words and make it suitable for audio narration.",
		composeStyles[req.Style], composeTones[req.Tone], composeLanguages[req.Language], *req.MaxWords)
}

// ComposeUserPrompt renders the user prompt of a defaulted request.
func ComposeUserPrompt(req ComposeRequest) string {
	texts := make([]string, 0, len(req.ContentItems))
	for _, item := range req.ContentItems {
		body, ok := item[content.FieldContent]
		if !ok {
			body = item["description"]
		}
		texts = append(texts, fmt.Sprintf("Source: %s\nTitle: %s\nContent: %s",
			stringOr(item[content.FieldSource], "Unknown"),
			stringOr(item[content.FieldTitle], ""),
			stringOr(body, ""),
		))
	}

	return fmt.Sprintf("Please process the following content items and create engaging audio-ready content:\n\n"+
		"%s\n\n"+
		"Requirements:\n"+
		"- Style: %s\n"+
		"- Tone: %s\n"+
		"- Language: %s\n"+
		"- Maximum words: %d\n"+
		"- Make it suitable for audio narration (clear, engaging, well-structured)",
		strings.Join(texts, "\n\n"), req.Style, req.Tone, req.Language, *req.MaxWords)
}

// stringOr renders v, or def when v is absent.
func stringOr(v any, def string) string {
	switch s := v.(type) {
	case nil:
		return def
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

// Smoke test prompt used by the integration check.
const (
	SmokeTestSystemPrompt = "You are a helpful and friendly AI assistant."
	SmokeTestUserPrompt   = "Hello! Tell me a fun fact about artificial intelligence."
	smokeTestMaxTokens    = 200
)

// SmokeTest sends a short greeting and returns the full response.
func (r *Rewriter) SmokeTest(ctx context.Context) (*GenerationResponse, error) {
	cfg := r.config(SmokeTestSystemPrompt, SmokeTestUserPrompt)
	cfg.MaxOutputTokens = smokeTestMaxTokens
	return r.gen.Generate(ctx, cfg)
}
