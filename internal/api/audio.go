package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/teemow/inboxcast/internal/logging"
	"github.com/teemow/inboxcast/internal/narration"
)

const (
	msgNarrationKeyMissing = "MiniMax API key not configured. Please set MINIMAX_API_KEY environment variable."
	msgNarrationDown       = "Cannot connect to MiniMax AI service"
	msgUnknownError        = "Unknown error occurred"
	msgSaveFailed          = "Failed to save audio file"

	// audioFilePrefix starts every generated file name. Downloads are only
	// served for files carrying it.
	audioFilePrefix = "audio_"
)

// testNarrationText is narrated by /api/audio/test.
const testNarrationText = "\n" +
	"        Welcome to InboxCast! This is a demonstration of our AI-powered text-to-speech functionality. \n" +
	"        InboxCast converts your daily emails and RSS feeds into podcast-style audio content, \n" +
	"        making it easy to stay informed while on the go.\n" +
	"        "

type audioResponse struct {
	Success       bool     `json:"success"`
	AudioFilePath string   `json:"audio_file_path,omitempty"`
	Duration      *float64 `json:"duration,omitempty"`
	Format        string   `json:"format,omitempty"`
	ErrorMessage  string   `json:"error_message,omitempty"`
}

// audioDefaults are applied to fields missing from an audio request.
func audioDefaults(text string) narration.Request {
	req := narration.NewRequest(text)
	req.Tone = narration.ToneFriendly
	return req
}

// GenerateAudio narrates the posted text and saves the result under the
// audio directory.
func (h *Handler) GenerateAudio(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		abort(c, http.StatusInternalServerError, fmt.Sprintf("Error generating audio: %v", err))
		return
	}
	req, err := narration.DecodeRequest(data, audioDefaults(""))
	if err != nil {
		abort(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	h.narrate(c, req)
}

// TestAudio narrates a fixed welcome text.
func (h *Handler) TestAudio(c *gin.Context) {
	h.narrate(c, audioDefaults(testNarrationText))
}

func (h *Handler) narrate(c *gin.Context, req narration.Request) {
	ctx := c.Request.Context()

	if !h.narrator.Configured() {
		abort(c, http.StatusInternalServerError, msgNarrationKeyMissing)
		return
	}
	if !h.narrator.TestConnection(ctx) {
		abort(c, http.StatusInternalServerError, msgNarrationDown)
		return
	}

	resp := h.narrator.Generate(ctx, req)
	if !resp.Success {
		msg := resp.ErrorMessage
		if msg == "" {
			msg = msgUnknownError
		}
		c.JSON(http.StatusOK, audioResponse{ErrorMessage: msg})
		return
	}

	path := filepath.Join(h.audioDir, audioFilePrefix+h.newID()+".mp3")
	if err := h.narrator.SaveAudio(ctx, resp, path); err != nil {
		h.logger.Error("failed to save audio", logging.Err(err))
		c.JSON(http.StatusOK, audioResponse{ErrorMessage: msgSaveFailed})
		return
	}

	format := resp.Format
	if format == "" {
		format = narration.DefaultFormat
	}
	c.JSON(http.StatusOK, audioResponse{
		Success:       true,
		AudioFilePath: path,
		Duration:      resp.Duration,
		Format:        format,
	})
}

// DownloadAudio serves a previously generated file. The path is absolute,
// for example /api/audio/download/tmp/audio_<id>.mp3.
func (h *Handler) DownloadAudio(c *gin.Context) {
	path := filepath.Clean(c.Param("path"))
	if !strings.HasPrefix(path, filepath.Join(h.audioDir, audioFilePrefix)) {
		abort(c, http.StatusForbidden, "Access denied")
		return
	}

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && info.IsDir()) {
		abort(c, http.StatusNotFound, "Audio file not found")
		return
	}
	if err != nil {
		abort(c, http.StatusInternalServerError, fmt.Sprintf("Error reading audio file: %v", err))
		return
	}

	c.Header("Content-Type", "audio/mpeg")
	c.FileAttachment(path, filepath.Base(path))
}

// TestAudioConnection reports whether MiniMax accepts requests.
func (h *Handler) TestAudioConnection(c *gin.Context) {
	if !h.narrator.Configured() {
		c.JSON(http.StatusOK, gin.H{
			"connected": false,
			"error":     "MiniMax API key not configured",
			"message":   "Please set MINIMAX_API_KEY environment variable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":          h.narrator.TestConnection(c.Request.Context()),
		"service":            "MiniMax AI",
		"api_key_configured": true,
	})
}
