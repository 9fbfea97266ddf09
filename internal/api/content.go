package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teemow/inboxcast/internal/ai"
	"github.com/teemow/inboxcast/internal/content"
)

const msgNoText = "Failed to generate content with Gemini AI"

// testComposeRequest is the fixed request behind /api/content/test.
func testComposeRequest() ai.ComposeRequest {
	maxWords := 200
	return ai.ComposeRequest{
		ContentItems: []map[string]any{
			{
				"title":   "AI Technology Breakthrough",
				"content": "Researchers have made significant advances in artificial intelligence, improving natural language processing capabilities.",
				"source":  "Tech News",
			},
			{
				"title":   "Climate Change Update",
				"content": "New studies show the importance of renewable energy adoption for environmental sustainability.",
				"source":  "Environmental Report",
			},
		},
		Tone:     "friendly",
		Language: "en-US",
		MaxWords: &maxWords,
		Style:    "summary",
	}
}

// GenerateContent composes audio-ready content from the posted items.
func (h *Handler) GenerateContent(c *gin.Context) {
	var req ai.ComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.compose(c, req)
}

// TestContent composes content from two built-in sample items.
func (h *Handler) TestContent(c *gin.Context) {
	h.compose(c, testComposeRequest())
}

func (h *Handler) compose(c *gin.Context, req ai.ComposeRequest) {
	resp, err := h.rewriter.Compose(c.Request.Context(), req)
	if err != nil {
		status, detail := rewriteError(err, "Error generating content")
		abort(c, status, detail)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type enhanceRequest struct {
	Item            *content.Item `json:"item" binding:"required"`
	EnhancementType string        `json:"enhancement_type"`
}

// EnhanceContent adds an AI summary, tags or analysis to an item's metadata.
func (h *Handler) EnhanceContent(c *gin.Context) {
	var req enhanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if req.EnhancementType == "" {
		req.EnhancementType = ai.EnhanceSummary
	}

	item, err := h.rewriter.Enhance(c.Request.Context(), req.Item, req.EnhancementType)
	if err != nil {
		status, detail := rewriteError(err, "Error enhancing content")
		abort(c, status, detail)
		return
	}
	c.JSON(http.StatusOK, item)
}

// rewriteError maps a rewriter error to a status and detail message.
func rewriteError(err error, prefix string) (int, string) {
	switch {
	case errors.Is(err, ai.ErrValidation):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, ai.ErrMissingAPIKey):
		return http.StatusInternalServerError, err.Error()
	case errors.Is(err, ai.ErrNoText):
		return http.StatusInternalServerError, msgNoText
	default:
		return http.StatusInternalServerError, fmt.Sprintf("%s: %v", prefix, err)
	}
}
