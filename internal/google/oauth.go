package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/teemow/inboxcast/internal/instrumentation"
	"github.com/teemow/inboxcast/internal/logging"
)

// Default file names, relative to the working directory.
const (
	DefaultCredentialsFile = "credentials.json"
	DefaultTokenFile       = "token.json"
)

var (
	// ErrCredentialsNotFound is returned when the OAuth client file is missing.
	ErrCredentialsNotFound = errors.New("google oauth credentials file not found")

	// ErrNoToken is returned when no usable token is stored and no consent
	// flow is available.
	ErrNoToken = errors.New("no valid Google OAuth token found")
)

// OAuthConfig loads a desktop-app OAuth client from credentialsFile and
// requests the read-only Gmail scope.
func OAuthConfig(credentialsFile string) (*oauth2.Config, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}

	conf, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	return conf, nil
}

// TokenFile stores a single OAuth token as JSON.
type TokenFile struct {
	Path string
}

// NewTokenFile returns a TokenFile at path, or at DefaultTokenFile when empty.
func NewTokenFile(path string) *TokenFile {
	if path == "" {
		path = DefaultTokenFile
	}
	return &TokenFile{Path: path}
}

// Exists reports whether a token has been stored.
func (f *TokenFile) Exists() bool {
	_, err := os.Stat(f.Path)
	return err == nil
}

// Load reads the stored token. A missing file yields ErrNoToken.
func (f *TokenFile) Load() (*oauth2.Token, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	tok := &oauth2.Token{}
	if err := json.Unmarshal(b, tok); err != nil {
		return nil, fmt.Errorf("invalid token file %s: %w", f.Path, err)
	}
	return tok, nil
}

// Save writes the token with 0600 permissions, creating parent directories.
func (f *TokenFile) Save(tok *oauth2.Token) error {
	if dir := filepath.Dir(f.Path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	b, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(f.Path, b, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// ConsentFunc obtains a fresh token interactively.
type ConsentFunc func(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)

// Authorizer turns stored credentials into an authenticated HTTP client.
type Authorizer struct {
	Config  *oauth2.Config
	Tokens  *TokenFile
	Consent ConsentFunc
	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
}

// TokenSource returns a token source backed by the stored token. Refreshed
// tokens are written back to the token file. When no usable token exists,
// the consent flow runs and its token is stored.
func (a *Authorizer) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}

	tok, err := a.Tokens.Load()
	if err == nil {
		ts := a.persisting(ctx, tok, logger)
		if _, err = ts.Token(); err == nil {
			return ts, nil
		}
		a.Metrics.RecordOAuthTokenRefresh(ctx, instrumentation.OAuthResultExpired)
		logger.Warn("cached token invalid", logging.Err(err))
	} else if !errors.Is(err, ErrNoToken) {
		logger.Warn("cached token unreadable", logging.Err(err))
	}

	if a.Consent == nil {
		return nil, ErrNoToken
	}

	tok, err = a.Consent(ctx, a.Config)
	if err != nil {
		return nil, fmt.Errorf("authorization failed: %w", err)
	}
	if err := a.Tokens.Save(tok); err != nil {
		return nil, err
	}
	logger.Info("saved new OAuth token", slog.String("path", a.Tokens.Path))

	return a.persisting(ctx, tok, logger), nil
}

func (a *Authorizer) persisting(ctx context.Context, tok *oauth2.Token, logger *slog.Logger) *persistingTokenSource {
	return &persistingTokenSource{
		src:     oauth2.ReuseTokenSource(tok, a.Config.TokenSource(ctx, tok)),
		file:    a.Tokens,
		logger:  logger,
		metrics: a.Metrics,
		last:    tok.AccessToken,
	}
}

// HTTPClient returns an HTTP client configured with OAuth2 authentication.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors.
func (a *Authorizer) HTTPClient(ctx context.Context) (*http.Client, error) {
	ts, err := a.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	return &http.Client{
		Transport: &oauth2.Transport{
			Source: ts,
			Base:   &http.Transport{ForceAttemptHTTP2: false},
		},
	}, nil
}

// persistingTokenSource saves every token that differs from the last one it
// saw, so refreshed access tokens survive restarts.
type persistingTokenSource struct {
	src     oauth2.TokenSource
	file    *TokenFile
	logger  *slog.Logger
	metrics *instrumentation.Metrics

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.src.Token()
	if err != nil {
		s.metrics.RecordOAuthTokenRefresh(context.Background(), instrumentation.OAuthResultFailure)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		s.metrics.RecordOAuthTokenRefresh(context.Background(), instrumentation.OAuthResultSuccess)
		if err := s.file.Save(tok); err != nil {
			s.logger.Warn("failed to persist refreshed token", logging.Err(err))
		} else {
			s.logger.Debug("persisted refreshed token", slog.String("token", logging.SanitizeToken(tok.AccessToken)))
		}
	}
	return tok, nil
}
