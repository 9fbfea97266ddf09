package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/mock/gomock"

	"github.com/teemow/inboxcast/internal/narration"
)

func (s *HandlerTestSuite) TestGenerateAudio() {
	duration := 4.5
	resp := &narration.Response{Success: true, AudioURL: "https://cdn.example.com/a.mp3", Duration: &duration}
	wantPath := filepath.Join(s.audioDir, "audio_0123456789abcdef.mp3")

	s.narrator.EXPECT().Configured().Return(true)
	s.narrator.EXPECT().TestConnection(gomock.Any()).Return(true)
	s.narrator.EXPECT().Generate(gomock.Any(), narration.Request{
		Text:     "Hi",
		Tone:     narration.ToneFriendly,
		Speed:    1.0,
		Language: narration.LanguageEnglish,
	}).Return(resp)
	s.narrator.EXPECT().SaveAudio(gomock.Any(), resp, wantPath).Return(nil)

	rec := s.do(http.MethodPost, "/api/audio/generate", `{"text":"Hi"}`)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal(map[string]any{
		"success":         true,
		"audio_file_path": wantPath,
		"duration":        4.5,
		"format":          "mp3",
	}, s.decode(rec))
}

func (s *HandlerTestSuite) TestGenerateAudio_Failures() {
	s.Run("missing key", func() {
		s.narrator.EXPECT().Configured().Return(false)

		rec := s.do(http.MethodPost, "/api/audio/generate", `{"text":"Hi"}`)
		s.assertDetail(rec, http.StatusInternalServerError,
			"MiniMax API key not configured. Please set MINIMAX_API_KEY environment variable.")
	})

	s.Run("service unreachable", func() {
		s.narrator.EXPECT().Configured().Return(true)
		s.narrator.EXPECT().TestConnection(gomock.Any()).Return(false)

		rec := s.do(http.MethodPost, "/api/audio/generate", `{"text":"Hi"}`)
		s.assertDetail(rec, http.StatusInternalServerError, "Cannot connect to MiniMax AI service")
	})

	s.Run("generation failed", func() {
		s.narrator.EXPECT().Configured().Return(true)
		s.narrator.EXPECT().TestConnection(gomock.Any()).Return(true)
		s.narrator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(&narration.Response{ErrorMessage: "quota exceeded"})

		rec := s.do(http.MethodPost, "/api/audio/generate", `{"text":"Hi"}`)
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"success":false,"error_message":"quota exceeded"}`, rec.Body.String())
	})

	s.Run("generation failed without message", func() {
		s.narrator.EXPECT().Configured().Return(true)
		s.narrator.EXPECT().TestConnection(gomock.Any()).Return(true)
		s.narrator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(&narration.Response{})

		rec := s.do(http.MethodPost, "/api/audio/generate", `{"text":"Hi"}`)
		s.JSONEq(`{"success":false,"error_message":"Unknown error occurred"}`, rec.Body.String())
	})

	s.Run("save failed", func() {
		s.narrator.EXPECT().Configured().Return(true)
		s.narrator.EXPECT().TestConnection(gomock.Any()).Return(true)
		s.narrator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(&narration.Response{Success: true, AudioData: []byte("x")})
		s.narrator.EXPECT().SaveAudio(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("read-only file system"))

		rec := s.do(http.MethodPost, "/api/audio/generate", `{"text":"Hi"}`)
		s.JSONEq(`{"success":false,"error_message":"Failed to save audio file"}`, rec.Body.String())
	})
}

func (s *HandlerTestSuite) TestGenerateAudio_InvalidRequest() {
	tests := []struct {
		name string
		body string
	}{
		{name: "speed out of range", body: `{"text":"Hi","speed":3}`},
		{name: "unsupported tone", body: `{"text":"Hi","tone":"casual"}`},
		{name: "empty text", body: `{"text":""}`},
		{name: "unknown field", body: `{"text":"Hi","pitch":2}`},
		{name: "malformed", body: `{"text":`},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(http.MethodPost, "/api/audio/generate", tt.body)
			s.Equal(http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
		})
	}
}

func (s *HandlerTestSuite) TestTestAudio() {
	s.narrator.EXPECT().Configured().Return(true)
	s.narrator.EXPECT().TestConnection(gomock.Any()).Return(true)
	s.narrator.EXPECT().Generate(gomock.Any(), narration.Request{
		Text:     testNarrationText,
		Tone:     narration.ToneFriendly,
		Speed:    1.0,
		Language: narration.LanguageEnglish,
	}).Return(&narration.Response{Success: true, AudioData: []byte("x"), Format: "wav"})
	s.narrator.EXPECT().SaveAudio(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	rec := s.do(http.MethodPost, "/api/audio/test", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("wav", s.decode(rec)["format"])
}

func (s *HandlerTestSuite) TestDownloadAudio() {
	path := filepath.Join(s.audioDir, "audio_abc.mp3")
	s.Require().NoError(os.WriteFile(path, []byte("ID3"), 0600))

	rec := s.do(http.MethodGet, "/api/audio/download"+path, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("audio/mpeg", rec.Header().Get("Content-Type"))
	s.Contains(rec.Header().Get("Content-Disposition"), `filename="audio_abc.mp3"`)
	s.Equal("ID3", rec.Body.String())
}

func (s *HandlerTestSuite) TestDownloadAudio_Rejected() {
	s.Require().NoError(os.WriteFile(filepath.Join(s.audioDir, "notes.txt"), []byte("x"), 0600))

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantDetail string
	}{
		{name: "outside audio dir", path: "/etc/passwd", wantStatus: http.StatusForbidden, wantDetail: "Access denied"},
		{name: "wrong prefix", path: filepath.Join(s.audioDir, "notes.txt"), wantStatus: http.StatusForbidden, wantDetail: "Access denied"},
		{name: "traversal", path: s.audioDir + "/audio_x/../../secret.mp3", wantStatus: http.StatusForbidden, wantDetail: "Access denied"},
		{name: "missing", path: filepath.Join(s.audioDir, "audio_missing.mp3"), wantStatus: http.StatusNotFound, wantDetail: "Audio file not found"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rec := s.do(http.MethodGet, "/api/audio/download"+tt.path, nil)
			s.assertDetail(rec, tt.wantStatus, tt.wantDetail)
		})
	}
}

func (s *HandlerTestSuite) TestTestAudioConnection() {
	s.Run("not configured", func() {
		s.narrator.EXPECT().Configured().Return(false)

		rec := s.do(http.MethodGet, "/api/audio/test-connection", nil)
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"connected":false,"error":"MiniMax API key not configured","message":"Please set MINIMAX_API_KEY environment variable"}`, rec.Body.String())
	})

	s.Run("configured", func() {
		s.narrator.EXPECT().Configured().Return(true)
		s.narrator.EXPECT().TestConnection(gomock.Any()).Return(true)

		rec := s.do(http.MethodGet, "/api/audio/test-connection", nil)
		s.JSONEq(`{"connected":true,"service":"MiniMax AI","api_key_configured":true}`, rec.Body.String())
	})
}
