package feed_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxcast/internal/content"
	"github.com/teemow/inboxcast/internal/feed"
	"github.com/teemow/inboxcast/internal/server"
	"github.com/teemow/inboxcast/internal/tools/common"
)

// ToolFetchFeed is the name of the feed tool.
const ToolFetchFeed = "rss_fetch_feed"

type feedFetcher interface {
	Fetch(ctx context.Context, url string, maxEntries int) (*feed.Result, error)
}

type feedDiscoverer interface {
	Discover(ctx context.Context, siteURL string) (string, error)
}

type fetchResult struct {
	FeedURL string          `json:"feed_url"`
	Summary feed.Summary    `json:"summary"`
	Entries []*content.Item `json:"entries"`
}

// RegisterFeedTools registers the feed tools with the MCP server.
func RegisterFeedTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	fetchTool := mcp.NewTool(ToolFetchFeed,
		mcp.WithDescription("Fetch an RSS or Atom feed and return its summary and normalized entries"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Feed URL, or a website URL when discover is set"),
		),
		mcp.WithNumber("maxEntries",
			mcp.Description(fmt.Sprintf("Maximum number of entries to return (default: %d)", feed.DefaultMaxEntries)),
		),
		mcp.WithBoolean("discover",
			mcp.Description("Look for the feed behind a website URL before fetching (default: false)"),
		),
	)

	s.AddTool(fetchTool, common.InstrumentedToolHandlerWithSource(ToolFetchFeed, "url", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleFetchFeed(ctx, request, sc.Feeds(), sc.Discoverer())
		}))

	return nil
}

func handleFetchFeed(ctx context.Context, request mcp.CallToolRequest, feeds feedFetcher, discoverer feedDiscoverer) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	url := common.StringArg(args, "url", "")
	if url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}
	maxEntries := common.IntArg(args, "maxEntries", feed.DefaultMaxEntries)

	if common.BoolArg(args, "discover", false) {
		found, err := discoverer.Discover(ctx, url)
		if errors.Is(err, feed.ErrNoFeedFound) {
			return mcp.NewToolResultError(fmt.Sprintf("No feed found for %s", url)), nil
		}
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Feed discovery failed: %v", err)), nil
		}
		url = found
	}

	res, err := feeds.Fetch(ctx, url, maxEntries)
	if errors.Is(err, feed.ErrFetchFailed) {
		return mcp.NewToolResultError(fmt.Sprintf("Could not fetch RSS feed: %v", err)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error fetching RSS feed: %v", err)), nil
	}

	return common.JSONResult(fetchResult{
		FeedURL: url,
		Summary: res.Summary,
		Entries: res.Items,
	})
}
