package instrumentation

import (
	"net/url"
	"strings"
)

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent metrics explosion.
//
// # Warning
//
// High cardinality in metrics can cause:
// - Increased memory usage in Prometheus/metrics backends
// - Slower query performance
// - Higher storage costs
//
// Feed URLs are user supplied, so never use them as labels directly.

const unknownLabel = "unknown"

// ExtractHost returns the lower-cased host of a URL, without port.
// This reduces cardinality by using the host instead of the full feed URL.
//
// Example:
//
//	ExtractHost("https://Example.com:8443/feed.xml")  // "example.com"
//	ExtractHost("test://feed")                        // "feed"
//	ExtractHost("not a url")                          // "unknown"
//	ExtractHost("")                                   // "unknown"
func ExtractHost(rawURL string) string {
	if rawURL == "" {
		return unknownLabel
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return unknownLabel
	}

	return strings.ToLower(u.Hostname())
}

// Common operation types for vendor API metrics.
// Status, OAuth, and Service constants are defined in config.go.
const (
	OperationList       = "list"
	OperationGet        = "get"
	OperationFetch      = "fetch"
	OperationDiscover   = "discover"
	OperationGenerate   = "generate"
	OperationSynthesize = "synthesize"
	OperationDownload   = "download"
)
