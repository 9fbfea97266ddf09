package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/inboxcast/internal/narration"
	"github.com/teemow/inboxcast/internal/server"
)

// Resource URIs.
const (
	URIStatus = "inboxcast://status"
	URIVoices = "inboxcast://audio/voices"
)

const mimeJSON = "application/json"

// Status describes the integrations of a running server.
type Status struct {
	GmailAuthenticated  bool   `json:"gmailAuthenticated"`
	AIProvider          string `json:"aiProvider"`
	AIModel             string `json:"aiModel"`
	AIConfigured        bool   `json:"aiConfigured"`
	NarrationConfigured bool   `json:"narrationConfigured"`
	AudioDir            string `json:"audioDir"`
}

// Voices lists the options accepted by the audio tool.
type Voices struct {
	Tones        []narration.Tone     `json:"tones"`
	Languages    []narration.Language `json:"languages"`
	MinSpeed     float64              `json:"minSpeed"`
	MaxSpeed     float64              `json:"maxSpeed"`
	DefaultSpeed float64              `json:"defaultSpeed"`
}

var (
	statusResource = mcp.NewResource(
		URIStatus,
		"InboxCast Status",
		mcp.WithResourceDescription("Gmail login state and whether the AI and narration services have API keys"),
		mcp.WithMIMEType(mimeJSON),
	)
	voicesResource = mcp.NewResource(
		URIVoices,
		"Narration Voices",
		mcp.WithResourceDescription("Tones, languages and speed range accepted by audio_generate"),
		mcp.WithMIMEType(mimeJSON),
	)
)

// Definitions returns the resources RegisterResources adds.
func Definitions() []mcp.Resource {
	return []mcp.Resource{statusResource, voicesResource}
}

// RegisterResources registers the server resources with the MCP server.
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	s.AddResource(statusResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, CurrentStatus(sc))
	})
	s.AddResource(voicesResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return jsonContents(request.Params.URI, SupportedVoices())
	})
	return nil
}

// CurrentStatus reports the state of sc's integrations.
func CurrentStatus(sc *server.ServerContext) Status {
	return Status{
		GmailAuthenticated:  sc.Auth().Authenticated(),
		AIProvider:          sc.Config().AI.Provider,
		AIModel:             sc.Rewriter().Model(),
		AIConfigured:        sc.Rewriter().Configured(),
		NarrationConfigured: sc.Narrator().Configured(),
		AudioDir:            sc.AudioDir(),
	}
}

// SupportedVoices returns the narration options.
func SupportedVoices() Voices {
	return Voices{
		Tones:        narration.Tones,
		Languages:    narration.Languages,
		MinSpeed:     narration.MinSpeed,
		MaxSpeed:     narration.MaxSpeed,
		DefaultSpeed: narration.DefaultSpeed,
	}
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource data: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(jsonData),
		},
	}, nil
}
