package audio_tools

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxcast/internal/narration"
	"github.com/teemow/inboxcast/internal/server"
	"github.com/teemow/inboxcast/internal/tools/common"
)

// ToolGenerate is the name of the narration tool.
const ToolGenerate = "audio_generate"

type narrator interface {
	Configured() bool
	Generate(ctx context.Context, req narration.Request) *narration.Response
	SaveAudio(ctx context.Context, resp *narration.Response, path string) error
}

type generateResult struct {
	Success       bool     `json:"success"`
	AudioFilePath string   `json:"audio_file_path"`
	Duration      *float64 `json:"duration,omitempty"`
	Format        string   `json:"format"`
}

// RegisterAudioTools registers the audio tools with the MCP server.
func RegisterAudioTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	generateTool := mcp.NewTool(ToolGenerate,
		mcp.WithDescription("Narrate text with MiniMax text-to-speech and save the audio file"),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Text to narrate"),
		),
		mcp.WithString("tone",
			mcp.Description(fmt.Sprintf("Voice tone: %s (default: %s)", joinTones(), narration.ToneFriendly)),
		),
		mcp.WithNumber("speed",
			mcp.Description(fmt.Sprintf("Speech speed between %.1f and %.1f (default: %.1f)", narration.MinSpeed, narration.MaxSpeed, narration.DefaultSpeed)),
		),
		mcp.WithString("language",
			mcp.Description(fmt.Sprintf("Voice language (default: %s)", narration.LanguageEnglish)),
		),
		mcp.WithString("voiceId",
			mcp.Description("MiniMax voice ID (optional)"),
		),
	)

	s.AddTool(generateTool, common.InstrumentedToolHandler(ToolGenerate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGenerate(ctx, request, sc.Narrator(), sc.AudioDir(), uuid.NewString)
		}))

	return nil
}

func handleGenerate(ctx context.Context, request mcp.CallToolRequest, n narrator, audioDir string, newID func() string) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	req := narration.NewRequest(common.StringArg(args, "text", ""))
	req.Tone = narration.Tone(common.StringArg(args, "tone", string(narration.ToneFriendly)))
	req.Speed = common.FloatArg(args, "speed", narration.DefaultSpeed)
	req.Language = narration.Language(common.StringArg(args, "language", string(narration.LanguageEnglish)))
	req.VoiceID = common.StringArg(args, "voiceId", "")
	if err := req.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !n.Configured() {
		return mcp.NewToolResultError(fmt.Sprintf("MiniMax API key not configured. Please set %s environment variable.", narration.KeyEnv)), nil
	}

	resp := n.Generate(ctx, req)
	if !resp.Success {
		msg := resp.ErrorMessage
		if msg == "" {
			msg = "Unknown error occurred"
		}
		return mcp.NewToolResultError(msg), nil
	}

	path := filepath.Join(audioDir, "audio_"+newID()+".mp3")
	if err := n.SaveAudio(ctx, resp, path); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to save audio file: %v", err)), nil
	}

	format := resp.Format
	if format == "" {
		format = narration.DefaultFormat
	}
	return common.JSONResult(generateResult{
		Success:       true,
		AudioFilePath: path,
		Duration:      resp.Duration,
		Format:        format,
	})
}

func joinTones() string {
	names := make([]string, 0, len(narration.Tones))
	for _, t := range narration.Tones {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
