package feed

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Entry is one raw feed entry reduced to the fields the normalizer reads.
// Nil pointers mean the field was absent from the document.
type Entry struct {
	Title     *string
	Author    *string
	Link      *string
	Summary   *string
	Published *string
	ID        *string
	Content   []ContentValue
	// PublishedParsed holds year, month, day, hour, minute, second and
	// optionally more fields. It is nil when the parser produced no date.
	PublishedParsed TimeTuple
}

// ContentValue is one content element of an entry.
type ContentValue struct {
	Type  string
	Value string
}

// TimeTuple is a broken-down timestamp: year, month, day, hour, minute,
// second, followed by any number of ignored fields.
type TimeTuple []int

// Format renders the tuple as "YYYY-MM-DD HH:MM:SS". It reports false when
// the tuple is too short or holds an impossible calendar value.
func (t TimeTuple) Format() (string, bool) {
	if len(t) < 6 {
		return "", false
	}
	year, month, day, hour, minute, second := t[0], t[1], t[2], t[3], t[4], t[5]

	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return "", false
	}
	if day < 1 || day > daysIn(year, time.Month(month)) {
		return "", false
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return "", false
	}

	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", year, month, day, hour, minute, second), true
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// TupleFromTime converts t to a UTC tuple.
func TupleFromTime(t time.Time) TimeTuple {
	u := t.UTC()
	return TimeTuple{u.Year(), int(u.Month()), u.Day(), u.Hour(), u.Minute(), u.Second()}
}

// atomFeedType is the gofeed.Feed.FeedType of Atom documents.
const atomFeedType = "atom"

// EntryFromItem maps a parsed gofeed item into an Entry. feedType is the
// parsed feed's FeedType and selects how authors are spelled.
// Empty strings are treated as absent.
func EntryFromItem(item *gofeed.Item, feedType string) Entry {
	if item == nil {
		return Entry{}
	}

	e := Entry{
		Title:     optional(item.Title),
		Author:    optional(authorString(item, feedType == atomFeedType)),
		Link:      optional(item.Link),
		Summary:   optional(item.Description),
		Published: optional(item.Published),
		ID:        optional(item.GUID),
	}

	if item.Content != "" {
		e.Content = []ContentValue{{Type: "text/html", Value: item.Content}}
	}
	if item.PublishedParsed != nil {
		e.PublishedParsed = TupleFromTime(*item.PublishedParsed)
	}

	return e
}

// authorString renders the first author as its format spells it: RSS
// writes "email (Name)" and Atom "Name (email)". With one half missing the
// other is returned alone.
func authorString(item *gofeed.Item, atom bool) string {
	var p *gofeed.Person
	switch {
	case len(item.Authors) > 0:
		p = item.Authors[0]
	case item.Author != nil:
		p = item.Author
	}
	if p == nil {
		return ""
	}

	name := strings.TrimSpace(p.Name)
	email := strings.TrimSpace(p.Email)
	switch {
	case email != "" && name != "" && atom:
		return name + " (" + email + ")"
	case email != "" && name != "":
		return email + " (" + name + ")"
	case email != "":
		return email
	default:
		return name
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
