package feed

import (
	"github.com/teemow/inboxcast/internal/content"
)

// SourcePrefix prefixes the feed URL in the source tag of every normalized entry.
const SourcePrefix = "RSS: "

// Fallbacks used when an entry field is missing.
const (
	DefaultTitle     = "No Title"
	DefaultAuthor    = "Unknown Author"
	DefaultFeedTitle = "Unknown Feed"
)

// Metadata keys written by NormalizeEntry.
const (
	MetaLink      = "link"
	MetaPublished = "published"
	MetaSummary   = "summary"
	MetaID        = "id"
)

// NormalizeEntry maps a raw feed entry into a unified content record tagged
// with the feed it came from.
func NormalizeEntry(e Entry, feedURL string) *content.Item {
	summary := valueOr(e.Summary, "")

	body := summary
	if len(e.Content) > 0 {
		body = e.Content[0].Value
	}

	id := valueOr(e.ID, "")
	if e.ID == nil {
		id = valueOr(e.Link, "")
	}

	return &content.Item{
		Title:   content.String(valueOr(e.Title, DefaultTitle)),
		Source:  content.String(SourcePrefix + feedURL),
		Author:  content.String(valueOr(e.Author, DefaultAuthor)),
		Content: content.String(body),
		Metadata: map[string]any{
			MetaLink:      valueOr(e.Link, ""),
			MetaPublished: publishedString(e),
			MetaSummary:   summary,
			MetaID:        id,
		},
	}
}

// NormalizeEntries normalizes at most limit entries in document order.
// A negative limit means no limit.
func NormalizeEntries(entries []Entry, feedURL string, limit int) []*content.Item {
	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	items := make([]*content.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, NormalizeEntry(e, feedURL))
	}
	return items
}

func publishedString(e Entry) string {
	if s, ok := e.PublishedParsed.Format(); ok {
		return s
	}
	return valueOr(e.Published, "")
}

func valueOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
