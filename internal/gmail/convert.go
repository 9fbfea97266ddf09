package gmail

import (
	gmail "google.golang.org/api/gmail/v1"

	"github.com/teemow/inboxcast/internal/mail"
)

// ToMailMessage converts a Gmail API message into the vendor-neutral
// mail.Message. Empty strings returned by the API are treated as absent.
func ToMailMessage(m *gmail.Message) *mail.Message {
	if m == nil {
		return nil
	}

	msg := &mail.Message{
		ID:       m.Id,
		ThreadID: m.ThreadId,
		Snippet:  optional(m.Snippet),
		Payload:  toPayload(m.Payload),
	}
	if len(m.LabelIds) > 0 {
		msg.LabelIDs = append([]string(nil), m.LabelIds...)
	}
	return msg
}

func toPayload(p *gmail.MessagePart) *mail.Payload {
	if p == nil {
		return nil
	}

	payload := &mail.Payload{
		MimeType: p.MimeType,
		Body:     toBody(p.Body),
	}
	for _, h := range p.Headers {
		if h == nil {
			continue
		}
		payload.Headers = append(payload.Headers, mail.Header{Name: h.Name, Value: h.Value})
	}
	for _, part := range p.Parts {
		if part == nil {
			continue
		}
		payload.Parts = append(payload.Parts, &mail.Part{
			MimeType: part.MimeType,
			Body:     toBody(part.Body),
		})
	}
	return payload
}

func toBody(b *gmail.MessagePartBody) *mail.Body {
	if b == nil {
		return nil
	}
	return &mail.Body{Data: optional(b.Data)}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
