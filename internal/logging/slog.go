package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"
)

// Attribute keys shared by every component.
const (
	KeyOperation    = "operation"
	KeyService      = "service"
	KeySource       = "source"
	KeyTool         = "tool"
	KeyURL          = "url"
	KeyModel        = "model"
	KeyCount        = "count"
	KeyError        = "error"
	KeySenderHash   = "sender_hash"
	KeySenderDomain = "sender_domain"
)

// WithOperation scopes logger to a named operation such as "rss.fetch".
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool scopes logger to an MCP tool.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// WithService scopes logger to a vendor: gmail, rss, gemini, anthropic or minimax.
func WithService(logger *slog.Logger, service string) *slog.Logger {
	return logger.With(slog.String(KeyService, service))
}

// WithSource scopes logger to a content source tag like "RSS: <url>".
func WithSource(logger *slog.Logger, source string) *slog.Logger {
	return logger.With(Source(source))
}

// Source is the content source tag. URLs inside the tag are redacted.
func Source(source string) slog.Attr {
	if rest, ok := strings.CutPrefix(source, "RSS: "); ok {
		source = "RSS: " + RedactURL(rest)
	}
	return slog.String(KeySource, source)
}

// URL is a remote URL with credentials stripped, see RedactURL.
func URL(raw string) slog.Attr {
	return slog.String(KeyURL, RedactURL(raw))
}

// Model is the generative model name.
func Model(model string) slog.Attr {
	return slog.String(KeyModel, model)
}

// Count is a number of items.
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// Err is the error text. A nil error yields the zero Attr, which handlers
// drop, so Err(maybeNil) is always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// SenderHash identifies a sender by a short hash of its address so log lines
// can be correlated without recording the address.
func SenderHash(from string) slog.Attr {
	return slog.String(KeySenderHash, hashAddress(from))
}

// Domain is the sender's mail domain, a low-cardinality stand-in for the
// full address.
func Domain(from string) slog.Attr {
	return slog.String(KeySenderDomain, senderDomain(from))
}

func hashAddress(from string) string {
	addr := strings.ToLower(bareAddress(from))
	if addr == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(addr))
	return "user:" + hex.EncodeToString(sum[:8])
}

func senderDomain(from string) string {
	local, domain, ok := strings.Cut(bareAddress(from), "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return ""
	}
	return domain
}

// bareAddress reduces "Name <addr@host>" to "addr@host". Input that does not
// parse is returned trimmed.
func bareAddress(from string) string {
	from = strings.TrimSpace(from)
	if a, err := mail.ParseAddress(from); err == nil {
		return a.Address
	}
	return from
}

// SanitizeToken reports only a token's length.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}

// RedactURL drops userinfo, query and fragment, which may carry API keys.
// Input that does not parse becomes "<invalid url>".
func RedactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
