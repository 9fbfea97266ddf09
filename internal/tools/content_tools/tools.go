package content_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxcast/internal/ai"
	"github.com/teemow/inboxcast/internal/content"
	"github.com/teemow/inboxcast/internal/server"
	"github.com/teemow/inboxcast/internal/tools/common"
)

// Tool names.
const (
	ToolGenerate = "content_generate"
	ToolEnhance  = "content_enhance"
)

type rewriter interface {
	Compose(ctx context.Context, req ai.ComposeRequest) (*ai.ComposeResponse, error)
	Enhance(ctx context.Context, item *content.Item, kind string) (*content.Item, error)
}

// RegisterContentTools registers the content tools with the MCP server.
func RegisterContentTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	generateTool := mcp.NewTool(ToolGenerate,
		mcp.WithDescription("Compose audio-ready podcast text from emails and feed entries"),
		mcp.WithString("items",
			mcp.Required(),
			mcp.Description("JSON array of content items with title, content and source fields"),
		),
		mcp.WithString("tone",
			mcp.Description("Tone: neutral, friendly, professional, energetic or casual (default: neutral)"),
		),
		mcp.WithString("style",
			mcp.Description("Style: summary, detailed or headlines (default: summary)"),
		),
		mcp.WithString("language",
			mcp.Description("Output language such as en-US or de-DE (default: en-US)"),
		),
		mcp.WithNumber("maxWords",
			mcp.Description(fmt.Sprintf("Upper bound on the generated word count (default: %d)", ai.DefaultComposeWords)),
		),
	)

	s.AddTool(generateTool, common.InstrumentedToolHandler(ToolGenerate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGenerate(ctx, request, sc.Rewriter())
		}))

	enhanceTool := mcp.NewTool(ToolEnhance,
		mcp.WithDescription("Add an AI summary, tags or analysis to a content item's metadata"),
		mcp.WithString("item",
			mcp.Required(),
			mcp.Description("JSON object of the content item to enhance"),
		),
		mcp.WithString("enhancementType",
			mcp.Description("Enhancement: summary, tags or analysis (default: summary)"),
		),
	)

	s.AddTool(enhanceTool, common.InstrumentedToolHandler(ToolEnhance, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleEnhance(ctx, request, sc.Rewriter())
		}))

	return nil
}

func handleGenerate(ctx context.Context, request mcp.CallToolRequest, rw rewriter) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	raw := common.StringArg(args, "items", "")
	if raw == "" {
		return mcp.NewToolResultError("items is required"), nil
	}
	var items []map[string]any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("items must be a JSON array of objects: %v", err)), nil
	}
	if items == nil {
		items = []map[string]any{}
	}

	req := ai.ComposeRequest{
		ContentItems: items,
		Tone:         common.StringArg(args, "tone", ""),
		Style:        common.StringArg(args, "style", ""),
		Language:     common.StringArg(args, "language", ""),
	}
	if _, ok := args["maxWords"]; ok {
		n := common.IntArg(args, "maxWords", ai.DefaultComposeWords)
		req.MaxWords = &n
	}

	resp, err := rw.Compose(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(errorMessage(err, "Error generating content")), nil
	}
	return common.JSONResult(resp)
}

func handleEnhance(ctx context.Context, request mcp.CallToolRequest, rw rewriter) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	raw := common.StringArg(args, "item", "")
	if raw == "" {
		return mcp.NewToolResultError("item is required"), nil
	}
	var item content.Item
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("item is not a valid content item: %v", err)), nil
	}

	enhanced, err := rw.Enhance(ctx, &item, common.StringArg(args, "enhancementType", ai.EnhanceSummary))
	if err != nil {
		return mcp.NewToolResultError(errorMessage(err, "Error enhancing content")), nil
	}
	return common.JSONResult(enhanced)
}

func errorMessage(err error, prefix string) string {
	switch {
	case errors.Is(err, ai.ErrValidation), errors.Is(err, ai.ErrMissingAPIKey):
		return err.Error()
	case errors.Is(err, ai.ErrNoText):
		return "Failed to generate content: " + err.Error()
	default:
		return fmt.Sprintf("%s: %v", prefix, err)
	}
}
