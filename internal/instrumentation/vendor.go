package instrumentation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// VendorCall tracks one outbound vendor operation: a client span plus the
// vendor_operations_total and vendor_operation_duration_seconds metrics.
//
// Usage:
//
//	ctx, call := instrumentation.BeginVendorCall(ctx, metrics, instrumentation.ServiceRSS, instrumentation.OperationFetch)
//	defer func() { call.End(err) }()
type VendorCall struct {
	ctx       context.Context
	metrics   *Metrics
	span      trace.Span
	service   string
	operation string
	start     time.Time
}

// BeginVendorCall starts tracking a vendor operation. metrics may be nil.
func BeginVendorCall(ctx context.Context, metrics *Metrics, service, operation string, attrs ...attribute.KeyValue) (context.Context, *VendorCall) {
	ctx, span := StartVendorSpan(ctx, service, operation, attrs...)
	return ctx, &VendorCall{
		ctx:       ctx,
		metrics:   metrics,
		span:      span,
		service:   service,
		operation: operation,
		start:     time.Now(),
	}
}

// Span returns the underlying span.
func (c *VendorCall) Span() trace.Span {
	return c.span
}

// End finishes the span and records the outcome. A nil err counts as success.
func (c *VendorCall) End(err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
		SetSpanError(c.span, err)
	} else {
		SetSpanSuccess(c.span)
	}
	c.span.End()
	c.metrics.RecordVendorOperation(c.ctx, c.service, c.operation, status, time.Since(c.start))
}
