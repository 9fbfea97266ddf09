// Package logging builds the inboxcast root logger and the slog attributes
// every component logs with.
//
// NewLogger selects a text or JSON handler and a level from configuration.
// The With* helpers scope a logger to a vendor service, an operation, an MCP
// tool or a content source:
//
//	logger := logging.WithService(base, instrumentation.ServiceRSS)
//	logger.Info("fetched feed", logging.URL(feedURL), logging.Count(len(entries)))
//
// Attributes that could leak credentials or personal data are reduced
// before they are logged. URL and RedactURL drop userinfo, query and
// fragment. SenderHash and Domain stand in for sender addresses, and
// SanitizeToken records only a token's length.
package logging
