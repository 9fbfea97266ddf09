package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/teemow/inboxcast/internal/instrumentation"
	"github.com/teemow/inboxcast/internal/server"
)

func newServerContext(t *testing.T, metrics *instrumentation.Metrics) *server.ServerContext {
	t.Helper()
	sc, err := server.NewServerContext(context.Background(), server.Options{Metrics: metrics})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newNoopMetrics(t *testing.T, detailed bool) *instrumentation.Metrics {
	t.Helper()
	metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"), detailed)
	require.NoError(t, err)
	return metrics
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestInstrumentedToolHandler(t *testing.T) {
	testErr := errors.New("test error")

	tests := []struct {
		name      string
		metrics   bool
		handler   ToolHandler
		wantErr   error
		wantError bool
	}{
		{
			name: "success without metrics",
			handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText("success"), nil
			},
		},
		{
			name:    "success with metrics",
			metrics: true,
			handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				time.Sleep(time.Millisecond)
				return mcp.NewToolResultText("success"), nil
			},
		},
		{
			name:    "go error is propagated",
			metrics: true,
			handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return nil, testErr
			},
			wantErr: testErr,
		},
		{
			name: "error result is returned unchanged",
			handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultError("error message"), nil
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var metrics *instrumentation.Metrics
			if tt.metrics {
				metrics = newNoopMetrics(t, false)
			}
			sc := newServerContext(t, metrics)

			called := false
			wrapped := InstrumentedToolHandler("test_tool", sc, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				called = true
				return tt.handler(ctx, req)
			})

			result, err := wrapped(context.Background(), callRequest(nil))
			assert.True(t, called)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Equal(t, tt.wantError, result.IsError)
		})
	}
}

func TestInstrumentedToolHandlerWithSource(t *testing.T) {
	sc := newServerContext(t, newNoopMetrics(t, true))

	var seen []string
	wrapped := InstrumentedToolHandlerWithSource("rss_fetch_feed", "url", sc, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		seen = append(seen, StringArg(req.GetArguments(), "url", ""))
		return mcp.NewToolResultText("ok"), nil
	})

	for _, args := range []map[string]interface{}{
		{"url": "https://example.com/feed.xml"},
		{"url": "not a url"},
		{},
		nil,
	} {
		result, err := wrapped(context.Background(), callRequest(args))
		require.NoError(t, err)
		assert.False(t, result.IsError)
	}
	assert.Equal(t, []string{"https://example.com/feed.xml", "not a url", "", ""}, seen)
}
