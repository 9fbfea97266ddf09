package api

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/mock/gomock"

	"github.com/teemow/inboxcast/internal/google"
	"github.com/teemow/inboxcast/internal/mail"
	"github.com/teemow/inboxcast/internal/server"
)

func (s *HandlerTestSuite) TestAuthStatus() {
	s.session.EXPECT().Authenticated().Return(true)

	rec := s.do(http.MethodGet, "/api/auth/status", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"authenticated":true}`, rec.Body.String())
}

func (s *HandlerTestSuite) TestLogin() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "success",
			wantStatus: http.StatusOK,
			wantBody:   `{"message":"Authentication successful","authenticated":true}`,
		},
		{
			name:       "missing credentials",
			err:        fmt.Errorf("%w: credentials.json", google.ErrCredentialsNotFound),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"detail":"credentials.json not found. Please set up Google OAuth2 credentials."}`,
		},
		{
			name:       "authentication failed",
			err:        fmt.Errorf("%w: token revoked", server.ErrAuthFailed),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"detail":"Authentication failed"}`,
		},
		{
			name:       "unexpected",
			err:        errors.New("disk full"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"detail":"Login error: disk full"}`,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.session.EXPECT().Login(gomock.Any()).Return(tt.err)

			rec := s.do(http.MethodGet, "/api/auth/login", nil)
			s.Equal(tt.wantStatus, rec.Code)
			s.JSONEq(tt.wantBody, rec.Body.String())
		})
	}
}

func (s *HandlerTestSuite) TestLogout() {
	s.session.EXPECT().Logout()

	rec := s.do(http.MethodPost, "/api/auth/logout", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"message":"Logged out successfully","authenticated":false}`, rec.Body.String())
}

func (s *HandlerTestSuite) TestEmails_NotAuthenticated() {
	s.session.EXPECT().Authenticated().Return(false)

	rec := s.do(http.MethodGet, "/api/auth/emails", nil)
	s.assertDetail(rec, http.StatusUnauthorized, "Not authenticated")
}

func (s *HandlerTestSuite) TestEmails() {
	snippet := "Quarterly numbers attached"
	msgs := []*mail.Message{{
		ID:       "m-1",
		LabelIDs: []string{"INBOX", "UNREAD"},
		Snippet:  &snippet,
		Payload: &mail.Payload{
			MimeType: "text/plain",
			Headers: []mail.Header{
				{Name: "Subject", Value: "Q3 report"},
				{Name: "From", Value: "cfo@example.com"},
			},
		},
	}}

	s.session.EXPECT().Authenticated().Return(true)
	s.session.EXPECT().ListInbox(gomock.Any(), int64(3)).Return(msgs, nil)

	rec := s.do(http.MethodGet, "/api/auth/emails?max_results=3", nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	body := s.decode(rec)
	s.Equal(float64(1), body["count"])
	emails := body["emails"].([]any)
	s.Require().Len(emails, 1)

	email := emails[0].(map[string]any)
	s.Equal("Q3 report", email["title"])
	s.Equal("Gmail", email["source"])
	s.Equal("cfo@example.com", email["author"])
	s.Equal(snippet, email["content"])
	s.Equal("Unknown Date", email["metadata"].(map[string]any)["date"])
}

func (s *HandlerTestSuite) TestEmails_DefaultMaxResults() {
	s.session.EXPECT().Authenticated().Return(true)
	s.session.EXPECT().ListInbox(gomock.Any(), int64(10)).Return(nil, nil)

	rec := s.do(http.MethodGet, "/api/auth/emails", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"emails":[],"count":0}`, rec.Body.String())
}

func (s *HandlerTestSuite) TestEmails_Errors() {
	s.Run("invalid max_results", func() {
		s.session.EXPECT().Authenticated().Return(true)

		rec := s.do(http.MethodGet, "/api/auth/emails?max_results=ten", nil)
		s.assertDetail(rec, http.StatusUnprocessableEntity, "max_results must be an integer")
	})

	s.Run("list fails", func() {
		s.session.EXPECT().Authenticated().Return(true)
		s.session.EXPECT().ListInbox(gomock.Any(), int64(10)).Return(nil, errors.New("quota exceeded"))

		rec := s.do(http.MethodGet, "/api/auth/emails", nil)
		s.assertDetail(rec, http.StatusInternalServerError, "Error fetching emails: quota exceeded")
	})

	s.Run("logged out concurrently", func() {
		s.session.EXPECT().Authenticated().Return(true)
		s.session.EXPECT().ListInbox(gomock.Any(), int64(10)).Return(nil, server.ErrNotAuthenticated)

		rec := s.do(http.MethodGet, "/api/auth/emails", nil)
		s.assertDetail(rec, http.StatusUnauthorized, "Not authenticated")
	})
}
