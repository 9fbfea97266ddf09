package mail

import (
	"github.com/teemow/inboxcast/internal/content"
)

// SourceGmail is the source tag of every normalized mail message.
const SourceGmail = "Gmail"

// Fallbacks used when a header is missing.
const (
	DefaultSubject = "No Subject"
	DefaultSender  = "Unknown Sender"
	DefaultDate    = "Unknown Date"
)

// Metadata keys written by Normalize.
const (
	MetaID      = "id"
	MetaDate    = "date"
	MetaSnippet = "snippet"
	MetaLabels  = "labels"
)

// Normalize maps a raw message into a unified content record.
func Normalize(msg *Message) *content.Item {
	if msg == nil {
		msg = &Message{}
	}

	subject := headerOr(msg.Payload, "Subject", DefaultSubject)
	sender := headerOr(msg.Payload, "From", DefaultSender)
	date := headerOr(msg.Payload, "Date", DefaultDate)

	snippet := ""
	if msg.Snippet != nil {
		snippet = *msg.Snippet
	}

	body := ExtractBody(msg.Payload)
	if body == "" {
		body = snippet
	}

	labels := make([]string, 0, len(msg.LabelIDs))
	labels = append(labels, msg.LabelIDs...)

	return &content.Item{
		Title:   content.String(subject),
		Source:  content.String(SourceGmail),
		Author:  content.String(sender),
		Content: content.String(body),
		Metadata: map[string]any{
			MetaID:      msg.ID,
			MetaDate:    date,
			MetaSnippet: snippet,
			MetaLabels:  labels,
		},
	}
}

// NormalizeAll normalizes every message in order.
func NormalizeAll(msgs []*Message) []*content.Item {
	items := make([]*content.Item, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, Normalize(m))
	}
	return items
}

func headerOr(p *Payload, name, def string) string {
	if v, ok := p.Header(name); ok {
		return v
	}
	return def
}
