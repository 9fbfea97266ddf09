// Package server holds the shared state of a running inboxcast server.
//
// ServerContext wires the feed, rewriting, narration and Gmail services from
// the loaded configuration and owns the single in-memory login state
// (AuthState). HealthChecker serves the liveness and readiness checks and
// MetricsServer exposes Prometheus metrics on a dedicated port.
package server
