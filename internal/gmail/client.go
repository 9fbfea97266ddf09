package gmail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/inboxcast/internal/google"
	"github.com/teemow/inboxcast/internal/instrumentation"
	"github.com/teemow/inboxcast/internal/logging"
	"github.com/teemow/inboxcast/internal/mail"
)

const (
	// DefaultMaxResults is the number of inbox messages listed when no
	// positive limit is given.
	DefaultMaxResults int64 = 10

	// LabelInbox is the system label of the inbox.
	LabelInbox = "INBOX"

	me = "me"
)

// ErrNotAuthenticated is returned by ListInbox before Authenticate succeeded.
var ErrNotAuthenticated = errors.New("gmail client not authenticated")

// Client wraps the Gmail Users service.
// It must be authenticated before the inbox can be listed.
type Client struct {
	auth     *google.Authorizer
	logger   *slog.Logger
	metrics  *instrumentation.Metrics
	endpoint string

	mu  sync.RWMutex
	svc *gmail.UsersService
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics enables vendor metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithEndpoint overrides the Gmail API base URL.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

// NewClient creates an unauthenticated Gmail client that obtains its
// credentials from auth.
func NewClient(auth *google.Authorizer, opts ...Option) *Client {
	c := &Client{
		auth:   auth,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Authenticate loads or refreshes the stored token, running the consent flow
// when needed, and builds the Gmail service.
func (c *Client) Authenticate(ctx context.Context) error {
	// The token source outlives the request that triggered authentication.
	httpClient, err := c.auth.HTTPClient(context.WithoutCancel(ctx))
	if err != nil {
		c.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		return fmt.Errorf("gmail authentication failed: %w", err)
	}

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}
	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		c.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultFailure)
		return fmt.Errorf("failed to create Gmail service: %w", err)
	}

	c.mu.Lock()
	c.svc = svc.Users
	c.mu.Unlock()

	c.metrics.RecordOAuthAuth(ctx, instrumentation.OAuthResultSuccess)
	logging.WithService(c.logger, instrumentation.ServiceGmail).Info("authenticated with Gmail")
	return nil
}

// Authenticated reports whether Authenticate has succeeded.
func (c *Client) Authenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.svc != nil
}

func (c *Client) users() (*gmail.UsersService, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.svc == nil {
		return nil, ErrNotAuthenticated
	}
	return c.svc, nil
}

// ListInbox lists up to maxResults inbox messages and fetches each one in
// full. A non-positive maxResults selects DefaultMaxResults.
func (c *Client) ListInbox(ctx context.Context, maxResults int64) (msgs []*mail.Message, err error) {
	users, err := c.users()
	if err != nil {
		return nil, err
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	ctx, call := instrumentation.BeginVendorCall(ctx, c.metrics, instrumentation.ServiceGmail, instrumentation.OperationList)
	defer func() { call.End(err) }()

	logger := logging.WithOperation(logging.WithService(c.logger, instrumentation.ServiceGmail), instrumentation.OperationList)

	res, err := users.Messages.List(me).LabelIds(LabelInbox).MaxResults(maxResults).Context(ctx).Do()
	if err != nil {
		logger.Error("failed to list inbox", logging.Err(err))
		return nil, fmt.Errorf("failed to list inbox messages: %w", err)
	}

	msgs = make([]*mail.Message, 0, len(res.Messages))
	for _, ref := range res.Messages {
		m, err := users.Messages.Get(me, ref.Id).Format("full").Context(ctx).Do()
		if err != nil {
			logger.Error("failed to get message", slog.String("message_id", ref.Id), logging.Err(err))
			return nil, fmt.Errorf("failed to get message %s: %w", ref.Id, err)
		}
		msg := ToMailMessage(m)
		from, _ := msg.Payload.Header("From")
		logger.Debug("fetched message", slog.String("message_id", ref.Id), logging.SenderHash(from), logging.Domain(from))
		msgs = append(msgs, msg)
	}

	call.Span().SetAttributes(instrumentation.NewSpanAttributeBuilder().WithItemCount(len(msgs)).Build()...)
	logger.Debug("listed inbox", logging.Count(len(msgs)))
	return msgs, nil
}
