package gmail

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/teemow/inboxcast/internal/content"
	"github.com/teemow/inboxcast/internal/instrumentation"
	"github.com/teemow/inboxcast/internal/mail"
)

const snippetWidth = 100

// InboxSummary lists up to maxResults inbox messages, normalizes them and
// writes a table of subject, sender, date and snippet to w. The normalized
// items are returned.
func (c *Client) InboxSummary(ctx context.Context, w io.Writer, maxResults int64) ([]*content.Item, error) {
	msgs, err := c.ListInbox(ctx, maxResults)
	if err != nil {
		return nil, err
	}

	items := mail.NormalizeAll(msgs)
	c.metrics.RecordItemsNormalized(ctx, instrumentation.ServiceGmail, len(items))

	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No messages found in inbox.")
		return items, err
	}

	WriteSummary(w, items)
	return items, nil
}

// WriteSummary renders normalized mail items as a table.
func WriteSummary(w io.Writer, items []*content.Item) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("INBOX SUMMARY (%d messages)", len(items)))
	t.AppendHeader(table.Row{"#", "Subject", "From", "Date", "Snippet"})
	for i, item := range items {
		t.AppendRow(table.Row{
			i + 1,
			item.TitleOr(mail.DefaultSubject),
			item.AuthorOr(mail.DefaultSender),
			item.MetadataString(mail.MetaDate),
			truncate(item.MetadataString(mail.MetaSnippet), snippetWidth),
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
