// Package api serves the inboxcast JSON API with gin.
//
// Routes are grouped by subsystem under /api: auth (Gmail login and inbox
// listing), rss (feed fetching), content (AI rewriting) and audio (MiniMax
// narration and downloads). Errors are returned as {"detail": "<message>"}.
//
// Handlers depend on the small interfaces in interfaces.go so they can be
// tested against the gomock implementations in the mocks package.
package api
