package mail

import (
	"encoding/base64"
	"strings"
	"unicode/utf8"
)

// MimeTypePlain is the only part type the extractor accepts.
const MimeTypePlain = "text/plain"

// ExtractBody returns the best available plain-text body of a payload.
//
// Inline body data on the payload itself wins. Otherwise the first part whose
// MIME type is exactly text/plain and that carries data is used. HTML-only
// messages, missing data and undecodable data all yield "".
func ExtractBody(p *Payload) string {
	if p == nil {
		return ""
	}

	if p.Body != nil && p.Body.Data != nil {
		return decodeBody(*p.Body.Data)
	}

	for _, part := range p.Parts {
		if part == nil || part.MimeType != MimeTypePlain {
			continue
		}
		if part.Body == nil || part.Body.Data == nil {
			continue
		}
		return decodeBody(*part.Body.Data)
	}

	return ""
}

// decodeBody decodes base64url data into UTF-8 text. Padded and unpadded
// input are both accepted. Any failure returns "".
func decodeBody(data string) string {
	raw, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		raw, err = base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
		if err != nil {
			return ""
		}
	}
	if !utf8.Valid(raw) {
		return ""
	}
	return string(raw)
}
