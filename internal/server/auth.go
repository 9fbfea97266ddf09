package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/teemow/inboxcast/internal/mail"
)

var (
	// ErrNotAuthenticated is returned when the inbox is read before a
	// successful login.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrAuthFailed wraps every failure of the mailbox authentication itself.
	ErrAuthFailed = errors.New("authentication failed")
)

// Mailbox is an inbox that must be authenticated before it can be listed.
type Mailbox interface {
	Authenticate(ctx context.Context) error
	ListInbox(ctx context.Context, maxResults int64) ([]*mail.Message, error)
}

// MailboxFactory creates a fresh, unauthenticated mailbox. It fails when the
// OAuth client credentials are unavailable.
type MailboxFactory func() (Mailbox, error)

// AuthState is the process-wide login state: one flag and the authenticated
// mailbox. It is reset by Logout or a restart.
type AuthState struct {
	factory MailboxFactory

	mu            sync.RWMutex
	authenticated bool
	mailbox       Mailbox
}

// NewAuthState creates a logged-out state that builds mailboxes with factory.
func NewAuthState(factory MailboxFactory) *AuthState {
	return &AuthState{factory: factory}
}

// Authenticated reports whether a login succeeded since the last logout.
func (a *AuthState) Authenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.authenticated
}

// Login creates and authenticates a new mailbox. Factory errors, such as
// missing credentials, are returned unchanged. Authentication errors are
// wrapped in ErrAuthFailed. The state is only changed on success.
func (a *AuthState) Login(ctx context.Context) error {
	mb, err := a.factory()
	if err != nil {
		return err
	}
	if err := mb.Authenticate(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	a.mu.Lock()
	a.authenticated = true
	a.mailbox = mb
	a.mu.Unlock()
	return nil
}

// Logout clears the flag and drops the mailbox.
func (a *AuthState) Logout() {
	a.mu.Lock()
	a.authenticated = false
	a.mailbox = nil
	a.mu.Unlock()
}

// ListInbox lists the authenticated mailbox.
func (a *AuthState) ListInbox(ctx context.Context, maxResults int64) ([]*mail.Message, error) {
	a.mu.RLock()
	mb, ok := a.mailbox, a.authenticated
	a.mu.RUnlock()

	if !ok || mb == nil {
		return nil, ErrNotAuthenticated
	}
	return mb.ListInbox(ctx, maxResults)
}
