package gmail_tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxcast/internal/content"
	"github.com/teemow/inboxcast/internal/gmail"
	"github.com/teemow/inboxcast/internal/google"
	"github.com/teemow/inboxcast/internal/instrumentation"
	"github.com/teemow/inboxcast/internal/mail"
	"github.com/teemow/inboxcast/internal/server"
	"github.com/teemow/inboxcast/internal/tools/common"
)

// ToolListInbox is the name of the inbox tool.
const ToolListInbox = "gmail_list_inbox"

type session interface {
	Authenticated() bool
	Login(ctx context.Context) error
	ListInbox(ctx context.Context, maxResults int64) ([]*mail.Message, error)
}

type inboxResult struct {
	Emails []*content.Item `json:"emails"`
	Count  int             `json:"count"`
}

// RegisterGmailTools registers the Gmail tools with the MCP server.
func RegisterGmailTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listInboxTool := mcp.NewTool(ToolListInbox,
		mcp.WithDescription("List the newest Gmail inbox messages as normalized content items"),
		mcp.WithNumber("maxResults",
			mcp.Description(fmt.Sprintf("Maximum number of messages to return (default: %d)", gmail.DefaultMaxResults)),
		),
	)

	s.AddTool(listInboxTool, common.InstrumentedToolHandler(ToolListInbox, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListInbox(ctx, request, sc.Auth(), sc.Metrics())
		}))

	return nil
}

func handleListInbox(ctx context.Context, request mcp.CallToolRequest, sess session, metrics *instrumentation.Metrics) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	maxResults := int64(common.IntArg(args, "maxResults", int(gmail.DefaultMaxResults)))

	if !sess.Authenticated() {
		if err := sess.Login(ctx); err != nil {
			return mcp.NewToolResultError(loginMessage(err)), nil
		}
	}

	msgs, err := sess.ListInbox(ctx, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Error fetching emails: %v", err)), nil
	}

	items := mail.NormalizeAll(msgs)
	metrics.RecordItemsNormalized(ctx, instrumentation.ServiceGmail, len(items))
	return common.JSONResult(inboxResult{Emails: items, Count: len(items)})
}

func loginMessage(err error) string {
	switch {
	case errors.Is(err, google.ErrCredentialsNotFound):
		return "credentials.json not found. Please set up Google OAuth2 credentials."
	case errors.Is(err, server.ErrAuthFailed):
		return fmt.Sprintf("Gmail authentication failed: %v", err)
	default:
		return fmt.Sprintf("Login error: %v", err)
	}
}
