package narration

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/teemow/inboxcast/internal/instrumentation"
	"github.com/teemow/inboxcast/internal/logging"
)

const (
	// DefaultBaseURL is the MiniMax text-to-speech endpoint.
	DefaultBaseURL = "https://api.minimax.chat/v1/text_to_speech"

	// DefaultTimeout bounds every request to MiniMax.
	DefaultTimeout = 30 * time.Second

	// DefaultFormat is assumed when MiniMax does not name the audio format.
	DefaultFormat = "mp3"

	// KeyEnv is the environment variable holding the MiniMax API key.
	KeyEnv = "MINIMAX_API_KEY"

	maxAudioSize = 100 << 20
)

// Fixed failure messages.
const (
	MsgMissingKey     = "MiniMax API key not provided. Set MINIMAX_API_KEY environment variable."
	MsgInvalidFormat  = "Invalid response format from MiniMax API"
	MsgTimeout        = "Request timeout. MiniMax API did not respond within 30 seconds."
	MsgConnection     = "Connection error. Could not reach MiniMax API."
	msgStatusTemplate = "API request failed with status %d"
	msgUnexpected     = "Unexpected error: %s"
)

// Client talks to the MiniMax text-to-speech API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables vendor metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client for apiKey. An empty key is accepted; every
// request then fails with MsgMissingKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.WithService(c.logger, instrumentation.ServiceMiniMax)
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type voiceSetting struct {
	Tone     Tone     `json:"tone"`
	Speed    float64  `json:"speed"`
	Language Language `json:"language"`
	VoiceID  string   `json:"voice_id,omitempty"`
}

type payload struct {
	Text         string       `json:"text"`
	VoiceSetting voiceSetting `json:"voice_setting"`
}

// Generate requests narration for req. It never returns an error: every
// failure is reported through Response.ErrorMessage.
func (c *Client) Generate(ctx context.Context, req Request) *Response {
	if !c.Configured() {
		return failure(MsgMissingKey)
	}

	var callErr error
	ctx, call := instrumentation.BeginVendorCall(ctx, c.metrics,
		instrumentation.ServiceMiniMax, instrumentation.OperationSynthesize)
	defer func() { call.End(callErr) }()

	resp, err := c.generate(ctx, req)
	if err != nil {
		callErr = err
		c.logger.Error("voice-over request failed", logging.Err(err))
		return failure(errorMessage(err))
	}
	if !resp.Success {
		callErr = errors.New(resp.ErrorMessage)
		c.logger.Warn("voice-over rejected", slog.String("reason", resp.ErrorMessage))
	}
	return resp
}

func (c *Client) generate(ctx context.Context, req Request) (*Response, error) {
	body, err := json.Marshal(payload{
		Text: req.Text,
		VoiceSetting: voiceSetting{
			Tone:     req.Tone,
			Speed:    req.Speed,
			Language: req.Language,
			VoiceID:  req.VoiceID,
		},
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxAudioSize))
	if err != nil {
		return nil, err
	}

	if httpResp.StatusCode != http.StatusOK {
		return failure(statusMessage(httpResp.StatusCode, data)), nil
	}
	return parseSuccess(data)
}

// parseSuccess maps a 200 body to a Response. audio_url takes precedence
// over audio_data.
func parseSuccess(data []byte) (*Response, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	resp := &Response{Success: true, Format: DefaultFormat}
	if raw, ok := fields["format"]; ok {
		var format string
		if err := json.Unmarshal(raw, &format); err == nil && format != "" {
			resp.Format = format
		}
	}
	if raw, ok := fields["duration"]; ok {
		var d float64
		if err := json.Unmarshal(raw, &d); err == nil {
			resp.Duration = &d
		}
	}

	if raw, ok := fields["audio_url"]; ok {
		if err := json.Unmarshal(raw, &resp.AudioURL); err != nil || resp.AudioURL == "" {
			return failure(MsgInvalidFormat), nil
		}
		return resp, nil
	}
	if raw, ok := fields["audio_data"]; ok {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return failure(MsgInvalidFormat), nil
		}
		audio, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("decode audio_data: %w", err)
		}
		resp.AudioData = audio
		return resp, nil
	}
	return failure(MsgInvalidFormat), nil
}

// statusMessage prefers the API's own message for non-200 responses.
func statusMessage(status int, body []byte) string {
	var e struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != nil {
		if s, ok := e.Message.(string); ok {
			return s
		}
		return fmt.Sprint(e.Message)
	}
	return fmt.Sprintf(msgStatusTemplate, status)
}

// errorMessage maps transport errors to the fixed messages.
func errorMessage(err error) string {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return MsgTimeout
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return MsgConnection
	}
	return fmt.Sprintf(msgUnexpected, err)
}

// SaveAudio writes the audio of a successful response to path, downloading
// it first when the response only carries a URL.
func (c *Client) SaveAudio(ctx context.Context, resp *Response, path string) (err error) {
	if resp == nil || !resp.Success {
		return errors.New("narration response was not successful")
	}
	if len(resp.AudioData) > 0 {
		return writeAudio(path, resp.AudioData)
	}
	if resp.AudioURL == "" {
		return errors.New("narration response carries no audio")
	}

	ctx, call := instrumentation.BeginVendorCall(ctx, c.metrics,
		instrumentation.ServiceMiniMax, instrumentation.OperationDownload,
		instrumentation.NewSpanAttributeBuilder().WithHost(resp.AudioURL).Build()...)
	defer func() { call.End(err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resp.AudioURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create download request: %w", err)
	}
	httpResp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download audio: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download audio: status %d", httpResp.StatusCode)
	}
	audio, err := io.ReadAll(io.LimitReader(httpResp.Body, maxAudioSize))
	if err != nil {
		return fmt.Errorf("failed to read audio: %w", err)
	}
	return writeAudio(path, audio)
}

func writeAudio(path string, audio []byte) error {
	if err := os.WriteFile(path, audio, 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return nil
}

// TestConnection sends a minimal request and reports whether it succeeded.
func (c *Client) TestConnection(ctx context.Context) bool {
	if !c.Configured() {
		return false
	}
	return c.Generate(ctx, NewRequest("Test")).Success
}
