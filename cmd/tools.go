package cmd

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxcast/internal/resources"
	"github.com/teemow/inboxcast/internal/server"
	"github.com/teemow/inboxcast/internal/tools/audio_tools"
	"github.com/teemow/inboxcast/internal/tools/content_tools"
	"github.com/teemow/inboxcast/internal/tools/feed_tools"
	"github.com/teemow/inboxcast/internal/tools/gmail_tools"
)

// newMCPServer creates the MCP server with every tool and resource
// registered.
func newMCPServer(sc *server.ServerContext) (*mcpserver.MCPServer, error) {
	mcpSrv := mcpserver.NewMCPServer("inboxcast", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithResourceCapabilities(false, false),
	)
	if err := registerAllTools(mcpSrv, sc); err != nil {
		return nil, err
	}
	if err := resources.RegisterResources(mcpSrv, sc); err != nil {
		return nil, fmt.Errorf("failed to register resources: %w", err)
	}
	return mcpSrv, nil
}

// registerAllTools registers all MCP tools
func registerAllTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext) error {
	type toolRegistration struct {
		name     string
		register func(*mcpserver.MCPServer, *server.ServerContext) error
	}

	registrations := []toolRegistration{
		{name: "RSS", register: feed_tools.RegisterFeedTools},
		{name: "Gmail", register: gmail_tools.RegisterGmailTools},
		{name: "Content", register: content_tools.RegisterContentTools},
		{name: "Audio", register: audio_tools.RegisterAudioTools},
	}

	for _, reg := range registrations {
		if err := reg.register(mcpSrv, sc); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", reg.name, err)
		}
	}

	return nil
}
