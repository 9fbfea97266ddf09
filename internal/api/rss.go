package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/teemow/inboxcast/internal/content"
	"github.com/teemow/inboxcast/internal/feed"
)

// testFeedURL is the source recorded for entries of the built-in sample feed.
const testFeedURL = "test://feed"

const testFeedDocument = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>InboxCast Test Feed</title>
    <description>A sample RSS feed for testing InboxCast functionality</description>
    <item>
      <title>Welcome to InboxCast</title>
      <description>This is a test article about InboxCast features.</description>
      <link>https://example.com/article1</link>
      <pubDate>Mon, 01 Jan 2024 12:00:00 GMT</pubDate>
    </item>
    <item>
      <title>AI-Powered Content Generation</title>
      <description>Learn how InboxCast uses AI to create audio content.</description>
      <link>https://example.com/article2</link>
      <pubDate>Mon, 01 Jan 2024 13:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

type feedRequest struct {
	URL        string `json:"url" binding:"required,url"`
	MaxEntries *int   `json:"max_entries"`
}

type feedResponse struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	TotalEntries int             `json:"total_entries"`
	Entries      []*content.Item `json:"entries"`
}

func newFeedResponse(res *feed.Result) feedResponse {
	return feedResponse{
		Title:        res.Summary.Title,
		Description:  res.Summary.Description,
		TotalEntries: res.Summary.TotalEntries,
		Entries:      res.Items,
	}
}

// FetchFeed fetches a feed and returns its normalized entries.
func (h *Handler) FetchFeed(c *gin.Context) {
	var req feedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	maxEntries := feed.DefaultMaxEntries
	if req.MaxEntries != nil {
		maxEntries = *req.MaxEntries
	}

	res, err := h.feeds.Fetch(c.Request.Context(), req.URL, maxEntries)
	if errors.Is(err, feed.ErrFetchFailed) {
		abort(c, http.StatusBadRequest, "Could not fetch RSS feed")
		return
	}
	if err != nil {
		abort(c, http.StatusInternalServerError, fmt.Sprintf("Error fetching RSS feed: %v", err))
		return
	}

	c.JSON(http.StatusOK, newFeedResponse(res))
}

// TestFeed normalizes the built-in sample feed.
func (h *Handler) TestFeed(c *gin.Context) {
	res, err := h.feeds.ParseDocument(c.Request.Context(), []byte(testFeedDocument), testFeedURL, feed.DefaultMaxEntries)
	if err != nil {
		abort(c, http.StatusInternalServerError, fmt.Sprintf("Error in RSS test: %v", err))
		return
	}

	c.JSON(http.StatusOK, newFeedResponse(res))
}
