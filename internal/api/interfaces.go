package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/teemow/inboxcast/internal/ai"
	"github.com/teemow/inboxcast/internal/content"
	"github.com/teemow/inboxcast/internal/feed"
	"github.com/teemow/inboxcast/internal/mail"
	"github.com/teemow/inboxcast/internal/narration"
)

// Session is the single Gmail login shared by all requests.
type Session interface {
	Authenticated() bool
	Login(ctx context.Context) error
	Logout()
	ListInbox(ctx context.Context, maxResults int64) ([]*mail.Message, error)
}

// FeedService fetches and normalizes RSS/Atom feeds.
type FeedService interface {
	Fetch(ctx context.Context, url string, maxEntries int) (*feed.Result, error)
	ParseDocument(ctx context.Context, body []byte, feedURL string, maxEntries int) (*feed.Result, error)
}

// Rewriter composes and enhances content with a generative model.
type Rewriter interface {
	Configured() bool
	Compose(ctx context.Context, req ai.ComposeRequest) (*ai.ComposeResponse, error)
	Enhance(ctx context.Context, item *content.Item, kind string) (*content.Item, error)
}

// Narrator turns text into audio.
type Narrator interface {
	Configured() bool
	Generate(ctx context.Context, req narration.Request) *narration.Response
	SaveAudio(ctx context.Context, resp *narration.Response, path string) error
	TestConnection(ctx context.Context) bool
}
