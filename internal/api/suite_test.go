package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/teemow/inboxcast/internal/api/mocks"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	session  *mocks.MockSession
	feeds    *mocks.MockFeedService
	rewriter *mocks.MockRewriter
	narrator *mocks.MockNarrator

	audioDir string
	handler  *Handler
	router   *gin.Engine
}

func (s *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.ctrl = gomock.NewController(s.T())

	s.session = mocks.NewMockSession(s.ctrl)
	s.feeds = mocks.NewMockFeedService(s.ctrl)
	s.rewriter = mocks.NewMockRewriter(s.ctrl)
	s.narrator = mocks.NewMockNarrator(s.ctrl)
	s.audioDir = s.T().TempDir()

	s.handler = NewHandler(Config{
		Session:  s.session,
		Feeds:    s.feeds,
		Rewriter: s.rewriter,
		Narrator: s.narrator,
		AudioDir: s.audioDir,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	s.handler.newID = func() string { return "0123456789abcdef" }
	s.router = NewRouter(s.handler, RouterOptions{})
}

func (s *HandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

// do sends a request with body encoded as JSON unless it is a string.
func (s *HandlerTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a JSON response body into a generic map.
func (s *HandlerTestSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *HandlerTestSuite) assertDetail(rec *httptest.ResponseRecorder, status int, detail string) {
	s.Equal(status, rec.Code, rec.Body.String())
	s.Equal(map[string]any{"detail": detail}, s.decode(rec))
}

func (s *HandlerTestSuite) TestHealth() {
	rec := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"status":"healthy","service":"InboxCast Demo"}`, rec.Body.String())
}
