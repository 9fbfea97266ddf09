package narration

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"
)

// Tone is a voice style.
type Tone string

// Supported tones.
const (
	ToneNeutral      Tone = "neutral"
	ToneFriendly     Tone = "friendly"
	ToneProfessional Tone = "professional"
	ToneEnergetic    Tone = "energetic"
	ToneCalm         Tone = "calm"
)

// Language is a BCP 47 voice language.
type Language string

// Supported languages.
const (
	LanguageEnglish  Language = "en-US"
	LanguageChinese  Language = "zh-CN"
	LanguageJapanese Language = "ja-JP"
	LanguageKorean   Language = "ko-KR"
	LanguageSpanish  Language = "es-ES"
	LanguageFrench   Language = "fr-FR"
	LanguageGerman   Language = "de-DE"
)

// Tones lists every supported tone.
var Tones = []Tone{ToneNeutral, ToneFriendly, ToneProfessional, ToneEnergetic, ToneCalm}

// Languages lists every supported language.
var Languages = []Language{
	LanguageEnglish, LanguageChinese, LanguageJapanese, LanguageKorean,
	LanguageSpanish, LanguageFrench, LanguageGerman,
}

// Speed limits.
const (
	MinSpeed     = 0.5
	MaxSpeed     = 2.0
	DefaultSpeed = 1.0
)

// ErrValidation is returned for a request outside the supported ranges.
var ErrValidation = errors.New("invalid narration request")

// Request is a text-to-speech request.
type Request struct {
	Text     string   `json:"text"`
	Tone     Tone     `json:"tone"`
	Speed    float64  `json:"speed"`
	Language Language `json:"language"`
	VoiceID  string   `json:"voice_id,omitempty"`
}

// NewRequest returns a request for text with a neutral tone, normal speed
// and US English.
func NewRequest(text string) Request {
	return Request{
		Text:     text,
		Tone:     ToneNeutral,
		Speed:    DefaultSpeed,
		Language: LanguageEnglish,
	}
}

// Validate reports the first field outside its supported range.
func (r Request) Validate() error {
	if utf8.RuneCountInString(r.Text) < 1 {
		return fmt.Errorf("%w: text must not be empty", ErrValidation)
	}
	if !slices.Contains(Tones, r.Tone) {
		return fmt.Errorf("%w: unsupported tone %q", ErrValidation, r.Tone)
	}
	if r.Speed < MinSpeed || r.Speed > MaxSpeed {
		return fmt.Errorf("%w: speed must be between %.1f and %.1f, got %g", ErrValidation, MinSpeed, MaxSpeed, r.Speed)
	}
	if !slices.Contains(Languages, r.Language) {
		return fmt.Errorf("%w: unsupported language %q", ErrValidation, r.Language)
	}
	return nil
}

// DecodeRequest decodes a JSON request on top of defaults and validates it.
// Unknown fields are rejected. Fields missing from data keep their default.
func DecodeRequest(data []byte, defaults Request) (Request, error) {
	req := defaults
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Response is the outcome of a narration request. On success exactly one of
// AudioURL and AudioData is set.
type Response struct {
	Success      bool     `json:"success"`
	AudioURL     string   `json:"audio_url,omitempty"`
	AudioData    []byte   `json:"audio_data,omitempty"`
	Duration     *float64 `json:"duration,omitempty"`
	Format       string   `json:"format,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty"`
}

func failure(msg string) *Response {
	return &Response{Success: false, ErrorMessage: msg}
}
