package feed

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/teemow/inboxcast/internal/instrumentation"
	"github.com/teemow/inboxcast/internal/logging"
)

// ErrNoFeedFound is returned when discovery finds no usable feed.
var ErrNoFeedFound = errors.New("no feed found")

// commonFeedPaths are well-known paths tried when HTML link discovery fails.
var commonFeedPaths = []string{
	"/feed",
	"/rss",
	"/feed.xml",
	"/rss.xml",
	"/atom.xml",
	"/index.xml",
}

// rssXMLType and atomXMLType are the MIME type substrings for feed link detection.
const (
	rssXMLType  = "rss+xml"
	atomXMLType = "atom+xml"
)

// DiscoveryLogger receives discovery outcomes. *slog.Logger satisfies it.
type DiscoveryLogger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Discoverer finds the feed behind a website URL.
type Discoverer struct {
	fetcher *Fetcher
	log     DiscoveryLogger
}

// NewDiscoverer creates a Discoverer. A nil log uses slog.Default.
func NewDiscoverer(fetcher *Fetcher, log DiscoveryLogger) *Discoverer {
	if log == nil {
		log = slog.Default()
	}
	return &Discoverer{fetcher: fetcher, log: log}
}

// Discover returns the URL of a feed for siteURL.
//
// siteURL itself is accepted when it already is a feed. Otherwise
// <link rel="alternate"> tags of an RSS or Atom type are tried, then the
// common feed paths. A candidate only counts when it parses with at least
// one entry.
func (d *Discoverer) Discover(ctx context.Context, siteURL string) (found string, err error) {
	ctx, call := instrumentation.BeginVendorCall(ctx, d.fetcher.metrics,
		instrumentation.ServiceRSS, instrumentation.OperationDiscover,
		instrumentation.NewSpanAttributeBuilder().WithHost(siteURL).Build()...)
	defer func() { call.End(err) }()

	body, err := d.fetcher.Get(ctx, siteURL)
	if err == nil {
		if d.isFeedDocument(ctx, body) {
			return siteURL, nil
		}
		for _, candidate := range extractFeedLinkCandidates(siteURL, body) {
			if d.isValidFeed(ctx, candidate) {
				d.log.Info("discovered feed URL", "url", logging.RedactURL(siteURL), "feed_url", candidate)
				return candidate, nil
			}
		}
	}

	for _, path := range commonFeedPaths {
		candidate := resolveURL(siteURL, path)
		if candidate == "" {
			continue
		}
		if d.isValidFeed(ctx, candidate) {
			d.log.Info("discovered feed URL at common path", "url", logging.RedactURL(siteURL), "feed_url", candidate)
			return candidate, nil
		}
	}

	d.log.Warn("no feed discovered", "url", logging.RedactURL(siteURL))
	return "", ErrNoFeedFound
}

// extractFeedLinkCandidates parses HTML and returns all feed URL candidates from link tags.
func extractFeedLinkCandidates(baseURL string, body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	var candidates []string

	doc.Find(`link[rel="alternate"]`).Each(func(_ int, s *goquery.Selection) {
		linkType, _ := s.Attr("type")
		if !isFeedType(linkType) {
			return
		}

		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}

		if resolved := resolveURL(baseURL, href); resolved != "" {
			candidates = append(candidates, resolved)
		}
	})

	return candidates
}

func (d *Discoverer) isValidFeed(ctx context.Context, feedURL string) bool {
	body, err := d.fetcher.Get(ctx, feedURL)
	if err != nil {
		return false
	}
	return d.isFeedDocument(ctx, body)
}

func (d *Discoverer) isFeedDocument(ctx context.Context, body []byte) bool {
	feed, err := d.fetcher.Parse(ctx, body)
	return err == nil && len(feed.Entries) > 0
}

func isFeedType(linkType string) bool {
	lower := strings.ToLower(linkType)
	return strings.Contains(lower, rssXMLType) || strings.Contains(lower, atomXMLType)
}

// resolveURL resolves href against base. It returns "" when either is invalid.
func resolveURL(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}
