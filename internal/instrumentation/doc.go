// Package instrumentation provides OpenTelemetry instrumentation for inboxcast.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, OAuth operations, and vendor API calls
//   - Distributed tracing for request flows and vendor calls
//   - Prometheus metrics export via /metrics on a dedicated port, served from
//     a per-provider registry that also carries Go runtime and process metrics
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, route, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Vendor API Metrics:
//   - vendor_operations_total: Counter of vendor operations by service, operation, status
//   - vendor_operation_duration_seconds: Histogram of vendor operation durations
//   - content_items_normalized_total: Counter of normalized items by source
//
// OAuth Authentication Metrics:
//   - oauth_auth_total: Counter of Gmail consent/authentication attempts by result
//   - oauth_token_refresh_total: Counter of token refresh attempts by result
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and outbound
// vendor calls (vendor.<service>.<operation>), e.g. vendor.rss.fetch or
// vendor.minimax.synthesize.
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: inboxcast)
//   - OTEL_SERVICE_INSTANCE_ID: Instance identifier (default: hostname)
//   - OTEL_EXPORTER_OTLP_INSECURE: Send OTLP over plain HTTP (default: false)
//   - METRICS_DETAILED_LABELS: Add the feed host label to tool metrics (default: false)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	ctx, call := instrumentation.BeginVendorCall(ctx, provider.Metrics(),
//		instrumentation.ServiceRSS, instrumentation.OperationFetch)
//	feed, err := fetch(ctx)
//	call.End(err)
package instrumentation
