package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teemow/inboxcast/internal/content"
	"github.com/teemow/inboxcast/internal/google"
	"github.com/teemow/inboxcast/internal/instrumentation"
	"github.com/teemow/inboxcast/internal/logging"
	"github.com/teemow/inboxcast/internal/mail"
	"github.com/teemow/inboxcast/internal/server"
)

const defaultMaxResults = 10

const (
	msgCredentialsMissing = "credentials.json not found. Please set up Google OAuth2 credentials."
	msgAuthFailed         = "Authentication failed"
	msgNotAuthenticated   = "Not authenticated"
)

// AuthStatus reports whether Gmail is logged in.
func (h *Handler) AuthStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authenticated": h.session.Authenticated()})
}

// Login authenticates against Gmail with the stored token or the consent flow.
func (h *Handler) Login(c *gin.Context) {
	err := h.session.Login(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Authentication successful", "authenticated": true})
	case errors.Is(err, google.ErrCredentialsNotFound):
		abort(c, http.StatusInternalServerError, msgCredentialsMissing)
	case errors.Is(err, server.ErrAuthFailed):
		h.logger.Warn("gmail login failed", logging.Err(err))
		abort(c, http.StatusUnauthorized, msgAuthFailed)
	default:
		h.logger.Error("gmail login error", logging.Err(err))
		abort(c, http.StatusInternalServerError, fmt.Sprintf("Login error: %v", err))
	}
}

// Logout clears the login state.
func (h *Handler) Logout(c *gin.Context) {
	h.session.Logout()
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "authenticated": false})
}

type emailsResponse struct {
	Emails []*content.Item `json:"emails"`
	Count  int             `json:"count"`
}

// Emails lists and normalizes the newest inbox messages.
func (h *Handler) Emails(c *gin.Context) {
	if !h.session.Authenticated() {
		abort(c, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}

	maxResults := int64(defaultMaxResults)
	if raw := c.Query("max_results"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			abort(c, http.StatusUnprocessableEntity, "max_results must be an integer")
			return
		}
		maxResults = n
	}

	ctx := c.Request.Context()
	msgs, err := h.session.ListInbox(ctx, maxResults)
	if errors.Is(err, server.ErrNotAuthenticated) {
		abort(c, http.StatusUnauthorized, msgNotAuthenticated)
		return
	}
	if err != nil {
		abort(c, http.StatusInternalServerError, fmt.Sprintf("Error fetching emails: %v", err))
		return
	}

	items := mail.NormalizeAll(msgs)
	h.metrics.RecordItemsNormalized(ctx, instrumentation.ServiceGmail, len(items))
	c.JSON(http.StatusOK, emailsResponse{Emails: items, Count: len(items)})
}
