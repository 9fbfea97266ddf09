package feed

import (
	"context"

	"github.com/teemow/inboxcast/internal/content"
	"github.com/teemow/inboxcast/internal/instrumentation"
)

// DefaultMaxEntries is the number of entries returned when no limit is given.
const DefaultMaxEntries = 10

// Summary is the channel description reported alongside entries.
type Summary struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Link         string `json:"link"`
	Language     string `json:"language"`
	LastUpdated  string `json:"last_updated"`
	TotalEntries int    `json:"total_entries"`
}

// Result is a summarized feed plus its normalized entries.
type Result struct {
	Summary Summary
	Items   []*content.Item
}

// Service turns feed URLs into normalized content records.
type Service struct {
	fetcher *Fetcher
	metrics *instrumentation.Metrics
}

// NewService creates a Service on top of fetcher. metrics may be nil.
func NewService(fetcher *Fetcher, metrics *instrumentation.Metrics) *Service {
	return &Service{fetcher: fetcher, metrics: metrics}
}

// FeedInfo fetches url and describes the feed.
func (s *Service) FeedInfo(ctx context.Context, url string) (*Summary, error) {
	feed, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	summary := summarize(feed)
	return &summary, nil
}

// Entries fetches url and normalizes its first maxEntries entries.
// A negative maxEntries selects DefaultMaxEntries.
func (s *Service) Entries(ctx context.Context, url string, maxEntries int) ([]*content.Item, error) {
	res, err := s.Fetch(ctx, url, maxEntries)
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

// Fetch performs a single request and returns both the feed summary and its
// first maxEntries normalized entries.
func (s *Service) Fetch(ctx context.Context, url string, maxEntries int) (*Result, error) {
	feed, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return s.result(ctx, feed, url, maxEntries), nil
}

// ParseDocument normalizes an in-memory document as if it had been fetched
// from feedURL.
func (s *Service) ParseDocument(ctx context.Context, body []byte, feedURL string, maxEntries int) (*Result, error) {
	feed, err := s.fetcher.Parse(ctx, body)
	if err != nil {
		return nil, err
	}
	return s.result(ctx, feed, feedURL, maxEntries), nil
}

func (s *Service) result(ctx context.Context, feed *Feed, url string, maxEntries int) *Result {
	if maxEntries < 0 {
		maxEntries = DefaultMaxEntries
	}
	items := NormalizeEntries(feed.Entries, url, maxEntries)
	s.metrics.RecordItemsNormalized(ctx, instrumentation.ServiceRSS, len(items))
	return &Result{Summary: summarize(feed), Items: items}
}

func summarize(feed *Feed) Summary {
	title := feed.Info.Title
	if title == "" {
		title = DefaultFeedTitle
	}
	return Summary{
		Title:        title,
		Description:  feed.Info.Description,
		Link:         feed.Info.Link,
		Language:     feed.Info.Language,
		LastUpdated:  feed.Info.Updated,
		TotalEntries: len(feed.Entries),
	}
}
