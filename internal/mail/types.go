package mail

// Message is a raw mail message as returned by a mail provider, reduced to the
// fields the normalizer reads. Provider adapters (see internal/gmail) convert
// their SDK types into Message so this package stays vendor neutral.
type Message struct {
	ID       string
	ThreadID string
	LabelIDs []string
	// Snippet is nil when the provider did not return one.
	Snippet *string
	Payload *Payload
}

// Payload is the top-level MIME structure of a message.
type Payload struct {
	MimeType string
	Headers  []Header
	Body     *Body
	Parts    []*Part
}

// Part is one MIME part of a multipart payload.
type Part struct {
	MimeType string
	Body     *Body
}

// Header is a single name/value header pair.
type Header struct {
	Name  string
	Value string
}

// Body holds base64url encoded data. Data is nil when no inline data is present.
type Body struct {
	Data *string
}

// Header returns the value of the first header named name and whether it was
// found. Matching is exact and case sensitive.
func (p *Payload) Header(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, h := range p.Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}
