package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/teemow/inboxcast/internal/ai"
	"github.com/teemow/inboxcast/internal/config"
	"github.com/teemow/inboxcast/internal/feed"
	"github.com/teemow/inboxcast/internal/gmail"
	"github.com/teemow/inboxcast/internal/google"
	"github.com/teemow/inboxcast/internal/instrumentation"
	"github.com/teemow/inboxcast/internal/narration"
)

// Options configures NewServerContext.
type Options struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *instrumentation.Metrics

	// Consent obtains a token when none is stored. Nil disables the
	// interactive flow so logins only succeed with a stored token.
	Consent google.ConsentFunc
}

// ServerContext holds the shared services of a running server and its
// single login state.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg        *config.Config
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
	feeds      *feed.Service
	discoverer *feed.Discoverer
	rewriter   *ai.Rewriter
	narrator   *narration.Client
	auth       *AuthState

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext wires the feed, rewriting, narration and Gmail services
// from opts.Config.
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	fetcher := feed.NewFetcher(
		feed.WithUserAgent(cfg.Feed.UserAgent),
		feed.WithTimeout(cfg.Feed.Timeout),
		feed.WithLogger(logger),
		feed.WithMetrics(opts.Metrics),
	)

	rewriter, err := ai.NewRewriterFromConfig(shutdownCtx, ai.ProviderConfig{
		Provider:        cfg.AI.Provider,
		GeminiAPIKey:    cfg.AI.GeminiAPIKey,
		AnthropicAPIKey: cfg.AI.AnthropicAPIKey,
		Model:           cfg.AI.Model,
	}, logger, opts.Metrics)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create content rewriter: %w", err)
	}

	narrator := narration.NewClient(cfg.Narration.APIKey,
		narration.WithBaseURL(cfg.Narration.BaseURL),
		narration.WithTimeout(cfg.Narration.Timeout),
		narration.WithLogger(logger),
		narration.WithMetrics(opts.Metrics),
	)

	sc := &ServerContext{
		ctx:        shutdownCtx,
		cancel:     cancel,
		cfg:        cfg,
		logger:     logger,
		metrics:    opts.Metrics,
		feeds:      feed.NewService(fetcher, opts.Metrics),
		discoverer: feed.NewDiscoverer(fetcher, logger),
		rewriter:   rewriter,
		narrator:   narrator,
	}
	sc.auth = NewAuthState(sc.gmailFactory(opts.Consent))

	logger.Info("server context ready",
		slog.String("ai_provider", cfg.AI.Provider),
		slog.Bool("ai_configured", rewriter.Configured()),
		slog.Bool("narration_configured", narrator.Configured()))
	return sc, nil
}

// gmailFactory reads the OAuth client file on every login so credentials
// added after startup are picked up.
func (sc *ServerContext) gmailFactory(consent google.ConsentFunc) MailboxFactory {
	return func() (Mailbox, error) {
		oauthCfg, err := google.OAuthConfig(sc.cfg.Gmail.CredentialsFile)
		if err != nil {
			return nil, err
		}
		authorizer := &google.Authorizer{
			Config:  oauthCfg,
			Tokens:  google.NewTokenFile(sc.cfg.Gmail.TokenFile),
			Consent: consent,
			Logger:  sc.logger,
			Metrics: sc.metrics,
		}
		return gmail.NewClient(authorizer,
			gmail.WithLogger(sc.logger),
			gmail.WithMetrics(sc.metrics),
		), nil
	}
}

// Context returns the server context. It is cancelled by Shutdown.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the configuration the context was built from.
func (sc *ServerContext) Config() *config.Config {
	return sc.cfg
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Metrics returns the metrics recorder. It may be nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// Feeds returns the feed service.
func (sc *ServerContext) Feeds() *feed.Service {
	return sc.feeds
}

// Discoverer returns the feed discoverer.
func (sc *ServerContext) Discoverer() *feed.Discoverer {
	return sc.discoverer
}

// Rewriter returns the content rewriter.
func (sc *ServerContext) Rewriter() *ai.Rewriter {
	return sc.rewriter
}

// Narrator returns the MiniMax client.
func (sc *ServerContext) Narrator() *narration.Client {
	return sc.narrator
}

// Auth returns the login state.
func (sc *ServerContext) Auth() *AuthState {
	return sc.auth
}

// AudioDir returns the directory generated audio is written to.
func (sc *ServerContext) AudioDir() string {
	return sc.cfg.Audio.Dir
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.auth.Logout()
	sc.cancel()
	return nil
}
