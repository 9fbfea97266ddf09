package api

import (
	"fmt"
	"net/http"

	"go.uber.org/mock/gomock"

	"github.com/teemow/inboxcast/internal/content"
	"github.com/teemow/inboxcast/internal/feed"
)

func sampleResult() *feed.Result {
	return &feed.Result{
		Summary: feed.Summary{Title: "Radar", Description: "Now, next, and beyond", TotalEntries: 25},
		Items: []*content.Item{{
			Title:    content.String("Trends"),
			Source:   content.String("RSS: https://example.com/feed"),
			Author:   content.String("Unknown Author"),
			Content:  content.String("Body"),
			Metadata: map[string]any{"link": "https://example.com/trends"},
		}},
	}
}

func (s *HandlerTestSuite) TestFetchFeed() {
	s.feeds.EXPECT().Fetch(gomock.Any(), "https://example.com/feed", feed.DefaultMaxEntries).Return(sampleResult(), nil)

	rec := s.do(http.MethodPost, "/api/rss/fetch", map[string]any{"url": "https://example.com/feed"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	body := s.decode(rec)
	s.Equal("Radar", body["title"])
	s.Equal("Now, next, and beyond", body["description"])
	s.Equal(float64(25), body["total_entries"])
	s.Len(body["entries"], 1)
}

func (s *HandlerTestSuite) TestFetchFeed_MaxEntries() {
	s.feeds.EXPECT().Fetch(gomock.Any(), "https://example.com/feed", 2).Return(sampleResult(), nil)

	rec := s.do(http.MethodPost, "/api/rss/fetch", map[string]any{"url": "https://example.com/feed", "max_entries": 2})
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerTestSuite) TestFetchFeed_Errors() {
	s.Run("fetch failed", func() {
		s.feeds.EXPECT().Fetch(gomock.Any(), "https://example.com/feed", gomock.Any()).
			Return(nil, fmt.Errorf("%w: unexpected status 404", feed.ErrFetchFailed))

		rec := s.do(http.MethodPost, "/api/rss/fetch", map[string]any{"url": "https://example.com/feed"})
		s.assertDetail(rec, http.StatusBadRequest, "Could not fetch RSS feed")
	})

	s.Run("unexpected", func() {
		s.feeds.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("boom"))

		rec := s.do(http.MethodPost, "/api/rss/fetch", map[string]any{"url": "https://example.com/feed"})
		s.assertDetail(rec, http.StatusInternalServerError, "Error fetching RSS feed: boom")
	})

	s.Run("invalid url", func() {
		rec := s.do(http.MethodPost, "/api/rss/fetch", map[string]any{"url": "not a url"})
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})

	s.Run("malformed body", func() {
		rec := s.do(http.MethodPost, "/api/rss/fetch", `{"url":`)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})
}

func (s *HandlerTestSuite) TestTestFeed_Mocked() {
	s.feeds.EXPECT().ParseDocument(gomock.Any(), []byte(testFeedDocument), "test://feed", feed.DefaultMaxEntries).
		Return(sampleResult(), nil)

	rec := s.do(http.MethodGet, "/api/rss/test", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerTestSuite) TestTestFeed_SampleDocument() {
	h := NewHandler(Config{Feeds: feed.NewService(feed.NewFetcher(), nil)})
	router := NewRouter(h, RouterOptions{})
	s.router = router

	rec := s.do(http.MethodGet, "/api/rss/test", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	body := s.decode(rec)
	s.Equal("InboxCast Test Feed", body["title"])
	s.Equal("A sample RSS feed for testing InboxCast functionality", body["description"])
	s.Equal(float64(2), body["total_entries"])

	entries := body["entries"].([]any)
	s.Require().Len(entries, 2)
	first := entries[0].(map[string]any)
	s.Equal("Welcome to InboxCast", first["title"])
	s.Equal("RSS: test://feed", first["source"])
	s.Equal("Unknown Author", first["author"])
	s.Equal("This is a test article about InboxCast features.", first["content"])
	s.Equal("https://example.com/article1", first["metadata"].(map[string]any)["link"])
}
