package api

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/mock/gomock"

	"github.com/teemow/inboxcast/internal/ai"
	"github.com/teemow/inboxcast/internal/content"
)

func (s *HandlerTestSuite) TestGenerateContent() {
	maxWords := 120
	want := ai.ComposeRequest{
		ContentItems: []map[string]any{{"title": "Hello", "content": "World", "source": "Gmail"}},
		Tone:         "professional",
		MaxWords:     &maxWords,
	}
	s.rewriter.EXPECT().Compose(gomock.Any(), want).Return(&ai.ComposeResponse{
		GeneratedContent: "Good morning listeners",
		WordCount:        3,
		SourceCount:      1,
		Success:          true,
	}, nil)

	rec := s.do(http.MethodPost, "/api/content/generate", want)
	s.Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.JSONEq(`{"generated_content":"Good morning listeners","word_count":3,"source_count":1,"success":true}`, rec.Body.String())
}

func (s *HandlerTestSuite) TestGenerateContent_Errors() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{
			name:       "missing key",
			err:        &ai.MissingKeyError{Provider: "Gemini", EnvVar: ai.GeminiKeyEnv},
			wantStatus: http.StatusInternalServerError,
			wantDetail: "Gemini API key not configured. Please set GEMINI_API_KEY environment variable.",
		},
		{
			name:       "no text",
			err:        ai.ErrNoText,
			wantStatus: http.StatusInternalServerError,
			wantDetail: "Failed to generate content with Gemini AI",
		},
		{
			name:       "validation",
			err:        fmt.Errorf("%w: max_words must be positive", ai.ErrValidation),
			wantStatus: http.StatusUnprocessableEntity,
			wantDetail: "invalid generation request: max_words must be positive",
		},
		{
			name:       "vendor error",
			err:        errors.New("googleapi: Error 503"),
			wantStatus: http.StatusInternalServerError,
			wantDetail: "Error generating content: googleapi: Error 503",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.rewriter.EXPECT().Compose(gomock.Any(), gomock.Any()).Return(nil, tt.err)

			rec := s.do(http.MethodPost, "/api/content/generate", map[string]any{"content_items": []any{}})
			s.assertDetail(rec, tt.wantStatus, tt.wantDetail)
		})
	}
}

func (s *HandlerTestSuite) TestTestContent() {
	s.rewriter.EXPECT().Compose(gomock.Any(), testComposeRequest()).
		Return(&ai.ComposeResponse{GeneratedContent: "ok", WordCount: 1, SourceCount: 2, Success: true}, nil)

	rec := s.do(http.MethodPost, "/api/content/test", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal(float64(2), s.decode(rec)["source_count"])
}

func (s *HandlerTestSuite) TestEnhanceContent() {
	item := &content.Item{
		Title:    content.String("Launch"),
		Content:  content.String("We shipped it."),
		Metadata: map[string]any{"id": "x"},
	}
	enhanced := item.Clone().WithMetadata(ai.MetaAITags, []string{"release", "product"})

	s.rewriter.EXPECT().Enhance(gomock.Any(), item, ai.EnhanceTags).Return(enhanced, nil)

	rec := s.do(http.MethodPost, "/api/content/enhance", map[string]any{"item": item, "enhancement_type": "tags"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	meta := s.decode(rec)["metadata"].(map[string]any)
	s.Equal("x", meta["id"])
	s.Equal([]any{"release", "product"}, meta[ai.MetaAITags])
}

func (s *HandlerTestSuite) TestEnhanceContent_DefaultsToSummary() {
	s.rewriter.EXPECT().Enhance(gomock.Any(), gomock.Any(), ai.EnhanceSummary).
		Return(&content.Item{Title: content.String("t")}, nil)

	rec := s.do(http.MethodPost, "/api/content/enhance", `{"item":{"title":"t","content":"c"}}`)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerTestSuite) TestEnhanceContent_Errors() {
	s.Run("missing item", func() {
		rec := s.do(http.MethodPost, "/api/content/enhance", `{"enhancement_type":"tags"}`)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("unknown field in item", func() {
		rec := s.do(http.MethodPost, "/api/content/enhance", `{"item":{"headline":"t"}}`)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("unknown enhancement", func() {
		s.rewriter.EXPECT().Enhance(gomock.Any(), gomock.Any(), "poem").
			Return(nil, fmt.Errorf("%w: enhancement_type must be one of summary, tags, analysis, got \"poem\"", ai.ErrValidation))

		rec := s.do(http.MethodPost, "/api/content/enhance", `{"item":{"content":"c"},"enhancement_type":"poem"}`)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})
}
