package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxcast/internal/content"
)

// fakeGenerator records requests and answers with a fixed text or error.
type fakeGenerator struct {
	text       string
	err        error
	configured bool
	calls      []GenerationConfig
}

func newFake(text string) *fakeGenerator {
	return &fakeGenerator{text: text, configured: true}
}

func (f *fakeGenerator) Generate(_ context.Context, cfg GenerationConfig) (*GenerationResponse, error) {
	f.calls = append(f.calls, cfg)
	if f.err != nil {
		return nil, f.err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &GenerationResponse{Text: f.text, ModelUsed: cfg.ModelName}, nil
}

func (f *fakeGenerator) Configured() bool { return f.configured }

func TestRewriter_Summarize(t *testing.T) {
	gen := newFake("short")
	r := NewRewriter(gen, "", nil)

	got, err := r.Summarize(context.Background(), "long text", 0)
	require.NoError(t, err)
	assert.Equal(t, "short", got)

	require.Len(t, gen.calls, 1)
	cfg := gen.calls[0]
	assert.Equal(t, DefaultModel, cfg.ModelName)
	assert.Equal(t, "You are a helpful assistant that creates concise summaries. Summarize the following content in 100 words or less.", cfg.SystemPrompt)
	assert.Equal(t, "Please summarize this content:\n\nlong text", cfg.UserPrompt)
	assert.Equal(t, DefaultTemperature, cfg.Temperature)
	assert.Equal(t, int64(DefaultMaxOutputTokens), cfg.MaxOutputTokens)
}

func TestRewriter_Enhance(t *testing.T) {
	base := &content.Item{
		Title:    content.String("Title"),
		Content:  content.String("Body text"),
		Metadata: map[string]any{"id": "1"},
	}

	tests := []struct {
		name     string
		kind     string
		response string
		key      string
		want     any
		prompt   string
	}{
		{
			name:     "summary",
			kind:     EnhanceSummary,
			response: "A summary",
			key:      MetaAISummary,
			want:     "A summary",
			prompt:   "Please summarize this content:\n\nBody text",
		},
		{
			name:     "tags are split and trimmed",
			kind:     EnhanceTags,
			response: "go, rss ,  podcasts",
			key:      MetaAITags,
			want:     []string{"go", "rss", "podcasts"},
			prompt:   "Generate tags for this content:\n\nTitle: Title\nContent: Body text...",
		},
		{
			name:     "analysis",
			kind:     EnhanceAnalysis,
			response: "Upbeat tone",
			key:      MetaAIAnalysis,
			want:     "Upbeat tone",
			prompt:   "Analyze this content:\n\nTitle: Title\nContent: Body text...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := newFake(tt.response)
			r := NewRewriter(gen, "", nil)

			got, err := r.Enhance(context.Background(), base, tt.kind)
			require.NoError(t, err)

			assert.Equal(t, tt.want, got.Metadata[tt.key])
			assert.Equal(t, "1", got.Metadata["id"])
			assert.NotContains(t, base.Metadata, tt.key)

			require.Len(t, gen.calls, 1)
			assert.Equal(t, tt.prompt, gen.calls[0].UserPrompt)
		})
	}
}

func TestRewriter_Enhance_TruncatesContent(t *testing.T) {
	gen := newFake("a,b")
	r := NewRewriter(gen, "", nil)

	item := &content.Item{Content: content.String(strings.Repeat("é", 600))}
	_, err := r.Enhance(context.Background(), item, EnhanceTags)
	require.NoError(t, err)

	want := "Generate tags for this content:\n\nTitle: None\nContent: " + strings.Repeat("é", 500) + "..."
	assert.Equal(t, want, gen.calls[0].UserPrompt)
}

func TestRewriter_Enhance_NoContent(t *testing.T) {
	gen := newFake("unused")
	r := NewRewriter(gen, "", nil)

	item := &content.Item{Title: content.String("Empty")}
	got, err := r.Enhance(context.Background(), item, EnhanceSummary)
	require.NoError(t, err)
	assert.Same(t, item, got)
	assert.Empty(t, gen.calls)
}

func TestRewriter_Enhance_GenerationFailure(t *testing.T) {
	gen := newFake("")
	gen.err = errors.New("boom")
	r := NewRewriter(gen, "", nil)

	item := &content.Item{Content: content.String("x"), Metadata: map[string]any{"k": "v"}}
	got, err := r.Enhance(context.Background(), item, EnhanceAnalysis)
	require.NoError(t, err)
	assert.NotSame(t, item, got)
	assert.Equal(t, map[string]any{"k": "v"}, got.Metadata)
}

func TestRewriter_Enhance_MissingKey(t *testing.T) {
	gen := newFake("")
	gen.err = &MissingKeyError{Provider: "Gemini", EnvVar: GeminiKeyEnv}
	r := NewRewriter(gen, "", nil)

	_, err := r.Enhance(context.Background(), &content.Item{Content: content.String("x")}, EnhanceSummary)
	require.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestRewriter_Enhance_UnknownKind(t *testing.T) {
	r := NewRewriter(newFake(""), "", nil)

	_, err := r.Enhance(context.Background(), &content.Item{Content: content.String("x")}, "poem")
	require.ErrorIs(t, err, ErrValidation)
}

func TestRewriter_Compose(t *testing.T) {
	gen := newFake("Welcome to today's episode of InboxCast")
	r := NewRewriter(gen, "", nil)

	words := 200
	resp, err := r.Compose(context.Background(), ComposeRequest{
		ContentItems: []map[string]any{
			{"title": "AI Technology Breakthrough", "content": "Researchers made advances.", "source": "Tech News"},
			{"title": "Only description", "description": "From a feed"},
		},
		Tone:     "friendly",
		MaxWords: &words,
	})
	require.NoError(t, err)
	assert.Equal(t, &ComposeResponse{
		GeneratedContent: "Welcome to today's episode of InboxCast",
		WordCount:        6,
		SourceCount:      2,
		Success:          true,
	}, resp)

	require.Len(t, gen.calls, 1)
	cfg := gen.calls[0]
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, int64(300), cfg.MaxOutputTokens)

	wantSystem := "You are an AI content creator for InboxCast, a service that converts emails and RSS feeds into podcast-style content. \n" +
		"Create a concise summary of the following content items in a friendly, conversational tone in English.\n" +
		"Keep the content under 200 words and make it suitable for audio narration."
	assert.Equal(t, wantSystem, cfg.SystemPrompt)

	wantUser := "Please process the following content items and create engaging audio-ready content:\n\n" +
		"Source: Tech News\nTitle: AI Technology Breakthrough\nContent: Researchers made advances.\n\n" +
		"Source: Unknown\nTitle: Only description\nContent: From a feed\n\n" +
		"Requirements:\n- Style: summary\n- Tone: friendly\n- Language: en-US\n- Maximum words: 200\n" +
		"- Make it suitable for audio narration (clear, engaging, well-structured)"
	assert.Equal(t, wantUser, cfg.UserPrompt)
}

func TestRewriter_Compose_TokenCap(t *testing.T) {
	gen := newFake("ok")
	r := NewRewriter(gen, "custom-model", nil)

	_, err := r.Compose(context.Background(), ComposeRequest{ContentItems: []map[string]any{}})
	require.NoError(t, err)
	assert.Equal(t, int64(600), gen.calls[0].MaxOutputTokens)
	assert.Equal(t, "custom-model", gen.calls[0].ModelName)

	words := 5000
	_, err = r.Compose(context.Background(), ComposeRequest{ContentItems: []map[string]any{}, MaxWords: &words})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), gen.calls[1].MaxOutputTokens)
}

func TestComposeRequest_Validate(t *testing.T) {
	zero := 0
	tests := []struct {
		name string
		req  ComposeRequest
	}{
		{name: "missing items", req: ComposeRequest{}},
		{name: "bad style", req: ComposeRequest{ContentItems: []map[string]any{}, Style: "poem"}},
		{name: "bad tone", req: ComposeRequest{ContentItems: []map[string]any{}, Tone: "calm"}},
		{name: "bad language", req: ComposeRequest{ContentItems: []map[string]any{}, Language: "it-IT"}},
		{name: "zero words", req: ComposeRequest{ContentItems: []map[string]any{}, MaxWords: &zero}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.WithDefaults().Validate()
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRewriter_Compose_GeneratorError(t *testing.T) {
	gen := newFake("")
	gen.err = ErrNoText
	r := NewRewriter(gen, "", nil)

	_, err := r.Compose(context.Background(), ComposeRequest{ContentItems: []map[string]any{}})
	require.ErrorIs(t, err, ErrNoText)
}

func TestRewriter_SmokeTest(t *testing.T) {
	gen := newFake("Octopuses have three hearts.")
	r := NewRewriter(gen, "", nil)

	resp, err := r.SmokeTest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Octopuses have three hearts.", resp.Text)
	assert.Equal(t, SmokeTestUserPrompt, gen.calls[0].UserPrompt)
	assert.Equal(t, int64(200), gen.calls[0].MaxOutputTokens)
}
