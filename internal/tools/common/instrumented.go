package common

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/inboxcast/internal/instrumentation"
	"github.com/teemow/inboxcast/internal/logging"
	"github.com/teemow/inboxcast/internal/server"
)

// ToolHandler is the signature of an MCP tool handler.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with a span and invocation
// metrics.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return instrumented(toolName, "", sc, handler)
}

// InstrumentedToolHandlerWithSource is like InstrumentedToolHandler but also
// labels the invocation with the host of the URL found in argument urlArg.
// The host label is only exported when detailed labels are enabled.
func InstrumentedToolHandlerWithSource(toolName, urlArg string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return instrumented(toolName, urlArg, sc, handler)
}

func instrumented(toolName, urlArg string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var (
			host  string
			attrs []attribute.KeyValue
		)
		if raw := StringArg(request.GetArguments(), urlArg, ""); urlArg != "" && raw != "" {
			host = instrumentation.ExtractHost(raw)
			attrs = instrumentation.NewSpanAttributeBuilder().WithHost(raw).Build()
		}
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, attrs...)
		defer span.End()

		start := time.Now()
		result, err := handler(ctx, request)
		duration := time.Since(start)

		logger := logging.WithTool(sc.Logger(), toolName)
		if host != "" {
			logger = logging.WithSource(logger, host)
		}

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
			logger.Error("tool call failed", logging.Err(err))
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			logger.Warn("tool returned an error result")
		default:
			instrumentation.SetSpanSuccess(span)
			logger.Debug("tool call succeeded", slog.Duration("duration", duration))
		}

		metrics := sc.Metrics()
		if host != "" {
			metrics.RecordToolInvocationWithSource(ctx, toolName, status, host, duration)
		} else {
			metrics.RecordToolInvocation(ctx, toolName, status, duration)
		}

		return result, err
	}
}
