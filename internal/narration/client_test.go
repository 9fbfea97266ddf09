package narration

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minimax(t *testing.T, status int, body string, check func(*http.Request, map[string]any)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			var got map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			check(r, got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Generate(t *testing.T) {
	audio := []byte("ID3-fake-mp3")

	tests := []struct {
		name   string
		status int
		body   string
		want   *Response
	}{
		{
			name:   "audio url",
			status: http.StatusOK,
			body:   `{"audio_url":"https://cdn.example.com/a.mp3","duration":12.5}`,
			want:   &Response{Success: true, AudioURL: "https://cdn.example.com/a.mp3", Duration: ptr(12.5), Format: "mp3"},
		},
		{
			name:   "inline audio",
			status: http.StatusOK,
			body:   `{"audio_data":"` + base64.StdEncoding.EncodeToString(audio) + `","format":"wav"}`,
			want:   &Response{Success: true, AudioData: audio, Format: "wav"},
		},
		{
			name:   "unknown shape",
			status: http.StatusOK,
			body:   `{"status":"ok"}`,
			want:   &Response{ErrorMessage: "Invalid response format from MiniMax API"},
		},
		{
			name:   "error with message",
			status: http.StatusUnauthorized,
			body:   `{"message":"invalid api key"}`,
			want:   &Response{ErrorMessage: "invalid api key"},
		},
		{
			name:   "error without message",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			want:   &Response{ErrorMessage: "API request failed with status 502"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := minimax(t, tt.status, tt.body, nil)
			c := NewClient("key", WithBaseURL(srv.URL))

			got := c.Generate(context.Background(), NewRequest("Hello"))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Generate_Payload(t *testing.T) {
	srv := minimax(t, http.StatusOK, `{"audio_url":"u"}`, func(r *http.Request, got map[string]any) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, map[string]any{
			"text": "Bonjour",
			"voice_setting": map[string]any{
				"tone":     "calm",
				"speed":    1.25,
				"language": "fr-FR",
				"voice_id": "v-7",
			},
		}, got)
	})

	req := Request{Text: "Bonjour", Tone: ToneCalm, Speed: 1.25, Language: LanguageFrench, VoiceID: "v-7"}
	resp := NewClient("secret", WithBaseURL(srv.URL)).Generate(context.Background(), req)
	assert.True(t, resp.Success)
}

func TestClient_Generate_OmitsEmptyVoiceID(t *testing.T) {
	srv := minimax(t, http.StatusOK, `{"audio_url":"u"}`, func(_ *http.Request, got map[string]any) {
		assert.NotContains(t, got["voice_setting"], "voice_id")
	})
	NewClient("k", WithBaseURL(srv.URL)).Generate(context.Background(), NewRequest("x"))
}

func TestClient_Generate_MissingKey(t *testing.T) {
	c := NewClient("")
	assert.False(t, c.Configured())

	got := c.Generate(context.Background(), NewRequest("Hello"))
	assert.Equal(t, &Response{ErrorMessage: "MiniMax API key not provided. Set MINIMAX_API_KEY environment variable."}, got)
	assert.False(t, c.TestConnection(context.Background()))
}

func TestClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	got := c.Generate(context.Background(), NewRequest("Hello"))
	assert.Equal(t, "Request timeout. MiniMax API did not respond within 30 seconds.", got.ErrorMessage)
	assert.False(t, got.Success)
}

func TestClient_Generate_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	got := NewClient("k", WithBaseURL(url)).Generate(context.Background(), NewRequest("Hello"))
	assert.Equal(t, "Connection error. Could not reach MiniMax API.", got.ErrorMessage)
}

func TestClient_Generate_UnexpectedError(t *testing.T) {
	srv := minimax(t, http.StatusOK, `not json`, nil)

	got := NewClient("k", WithBaseURL(srv.URL)).Generate(context.Background(), NewRequest("Hello"))
	assert.False(t, got.Success)
	assert.Contains(t, got.ErrorMessage, "Unexpected error: ")
}

func TestClient_SaveAudio(t *testing.T) {
	dir := t.TempDir()
	c := NewClient("k")

	t.Run("inline bytes", func(t *testing.T) {
		path := filepath.Join(dir, "inline.mp3")
		require.NoError(t, c.SaveAudio(context.Background(), &Response{Success: true, AudioData: []byte("abc")}, path))
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), got)
	})

	t.Run("download url", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("remote-audio"))
		}))
		defer srv.Close()

		path := filepath.Join(dir, "remote.mp3")
		require.NoError(t, c.SaveAudio(context.Background(), &Response{Success: true, AudioURL: srv.URL + "/a.mp3"}, path))
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("remote-audio"), got)
	})

	t.Run("download fails", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		defer srv.Close()

		path := filepath.Join(dir, "missing.mp3")
		require.Error(t, c.SaveAudio(context.Background(), &Response{Success: true, AudioURL: srv.URL}, path))
		assert.NoFileExists(t, path)
	})

	t.Run("unsuccessful response", func(t *testing.T) {
		require.Error(t, c.SaveAudio(context.Background(), &Response{ErrorMessage: "x"}, filepath.Join(dir, "x.mp3")))
	})
}

func TestClient_TestConnection(t *testing.T) {
	var text string
	srv := minimax(t, http.StatusOK, `{"audio_url":"u"}`, func(_ *http.Request, got map[string]any) {
		text, _ = got["text"].(string)
	})

	assert.True(t, NewClient("k", WithBaseURL(srv.URL)).TestConnection(context.Background()))
	assert.Equal(t, "Test", text)
}

func ptr(f float64) *float64 { return &f }
