package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/teemow/inboxcast/internal/instrumentation"
	"github.com/teemow/inboxcast/internal/logging"
)

const (
	// DefaultUserAgent identifies inboxcast to feed hosts.
	DefaultUserAgent = "InboxCast/1.0"

	// DefaultTimeout bounds a single feed request.
	DefaultTimeout = 30 * time.Second

	// maxDocumentSize caps how much of a response body is read.
	maxDocumentSize = 10 << 20
)

// ErrFetchFailed is returned when a feed could not be retrieved or parsed.
// Callers treat it as "no result".
var ErrFetchFailed = errors.New("could not fetch feed")

// Feed is a parsed feed document.
type Feed struct {
	Info    Info
	Entries []Entry
}

// Info describes a feed channel. Missing values are empty strings.
type Info struct {
	Title       string
	Description string
	Link        string
	Language    string
	Updated     string
}

// Fetcher retrieves and parses RSS/Atom documents over HTTP.
type Fetcher struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
	metrics   *instrumentation.Metrics
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets the HTTP client. Its Timeout is left untouched.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) { f.client = client }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithTimeout sets the request timeout of the default client.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.client = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMetrics records vendor metrics for every request.
func WithMetrics(m *instrumentation.Metrics) FetcherOption {
	return func(f *Fetcher) { f.metrics = m }
}

// NewFetcher creates a Fetcher with a 30 second timeout and the InboxCast
// User-Agent unless overridden.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads and parses the feed at url.
// Every failure is logged and returned wrapped in ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context, url string) (feed *Feed, err error) {
	ctx, call := instrumentation.BeginVendorCall(ctx, f.metrics,
		instrumentation.ServiceRSS, instrumentation.OperationFetch,
		instrumentation.NewSpanAttributeBuilder().WithHost(url).Build()...)
	defer func() { call.End(err) }()

	body, err := f.Get(ctx, url)
	if err != nil {
		f.logger.Error("error fetching RSS feed", logging.URL(url), logging.Err(err))
		return nil, err
	}

	feed, err = f.Parse(ctx, body)
	if err != nil {
		f.logger.Error("error parsing RSS feed", logging.URL(url), logging.Err(err))
		return nil, err
	}

	f.logger.Debug("fetched feed", logging.URL(url), logging.Count(len(feed.Entries)))
	return feed, nil
}

// Get performs a GET request and returns the body of a 2xx response.
// It does not log, so discovery can try candidates quietly.
func (f *Fetcher) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: new request: %w", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrFetchFailed, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetchFailed, err)
	}
	return body, nil
}

// Parse parses an in-memory RSS or Atom document.
func (f *Fetcher) Parse(ctx context.Context, body []byte) (*Feed, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrFetchFailed, err)
	}

	feed := &Feed{
		Info: Info{
			Title:       parsed.Title,
			Description: parsed.Description,
			Link:        parsed.Link,
			Language:    parsed.Language,
			Updated:     parsed.Updated,
		},
		Entries: make([]Entry, 0, len(parsed.Items)),
	}
	for _, item := range parsed.Items {
		feed.Entries = append(feed.Entries, EntryFromItem(item, parsed.FeedType))
	}
	return feed, nil
}
