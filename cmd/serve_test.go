package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxcast/internal/config"
	"github.com/teemow/inboxcast/internal/server"
)

func TestValidateTransport(t *testing.T) {
	tests := []struct {
		name      string
		transport string
		wantErr   bool
	}{
		{name: "http", transport: "http"},
		{name: "stdio", transport: "stdio"},
		{name: "streamable-http is not supported", transport: "streamable-http", wantErr: true},
		{name: "empty", transport: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTransport(tt.transport)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unsupported transport type")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewMCPServer_RegistersAllTools(t *testing.T) {
	def := config.Default()
	sc, err := server.NewServerContext(context.Background(), server.Options{Config: &def})
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	mcpSrv, err := newMCPServer(sc)
	require.NoError(t, err)

	tools := mcpSrv.ListTools()
	for _, name := range []string{"rss_fetch_feed", "gmail_list_inbox", "content_generate", "content_enhance", "audio_generate"} {
		assert.Contains(t, tools, name)
	}
	assert.Len(t, tools, 5)
}
