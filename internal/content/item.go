package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"sort"
)

// Field names of the unified record, in serialization order.
const (
	FieldTitle    = "title"
	FieldSource   = "source"
	FieldAuthor   = "author"
	FieldContent  = "content"
	FieldMetadata = "metadata"
)

// Fields lists every permitted key of an Item.
var Fields = []string{FieldTitle, FieldSource, FieldAuthor, FieldContent, FieldMetadata}

var (
	// ErrUnknownField is returned when a record is built or mutated with a key
	// outside of Fields.
	ErrUnknownField = errors.New("unknown content field")

	// ErrInvalidType is returned when a field value has the wrong type.
	ErrInvalidType = errors.New("invalid content field type")
)

// Item is the unified content record produced by every ingestion adapter.
type Item struct {
	Title    *string        `json:"title"`
	Source   *string        `json:"source"`
	Author   *string        `json:"author"`
	Content  *string        `json:"content"`
	Metadata map[string]any `json:"metadata"`
}

// String returns a pointer to s. It is a convenience for building Items.
func String(s string) *string {
	return &s
}

// FromMap builds an Item from its flat mapping form.
// Nil values are accepted and leave the field absent.
func FromMap(m map[string]any) (*Item, error) {
	item := &Item{}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := item.Set(k, m[k]); err != nil {
			return nil, err
		}
	}
	return item, nil
}

// Set assigns a single field after validating its name and value type.
// A nil value clears the field.
func (i *Item) Set(field string, value any) error {
	switch field {
	case FieldTitle:
		return setString(&i.Title, field, value)
	case FieldSource:
		return setString(&i.Source, field, value)
	case FieldAuthor:
		return setString(&i.Author, field, value)
	case FieldContent:
		return setString(&i.Content, field, value)
	case FieldMetadata:
		switch v := value.(type) {
		case nil:
			i.Metadata = nil
		case map[string]any:
			i.Metadata = v
		default:
			return fmt.Errorf("%w: %s must be a mapping, got %T", ErrInvalidType, field, value)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}

func setString(dst **string, field string, value any) error {
	switch v := value.(type) {
	case nil:
		*dst = nil
	case string:
		*dst = &v
	case *string:
		if v == nil {
			*dst = nil
			return nil
		}
		s := *v
		*dst = &s
	default:
		return fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidType, field, value)
	}
	return nil
}

// ToMap returns the flat mapping form of the record. Absent fields map to nil.
func (i *Item) ToMap() map[string]any {
	m := make(map[string]any, len(Fields))
	m[FieldTitle] = deref(i.Title)
	m[FieldSource] = deref(i.Source)
	m[FieldAuthor] = deref(i.Author)
	m[FieldContent] = deref(i.Content)
	if i.Metadata == nil {
		m[FieldMetadata] = nil
	} else {
		m[FieldMetadata] = i.Metadata
	}
	return m
}

func deref(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// UnmarshalJSON decodes a record, rejecting unknown keys and mistyped values.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode content item: %w", err)
	}

	decoded := &Item{}
	for k, v := range raw {
		var value any
		if err := json.Unmarshal(v, &value); err != nil {
			return fmt.Errorf("decode content field %s: %w", k, err)
		}
		if err := decoded.Set(k, value); err != nil {
			return err
		}
	}
	*i = *decoded
	return nil
}

// Clone returns a copy of the record with a shallow copy of its metadata.
func (i *Item) Clone() *Item {
	c := &Item{
		Title:   copyString(i.Title),
		Source:  copyString(i.Source),
		Author:  copyString(i.Author),
		Content: copyString(i.Content),
	}
	if i.Metadata != nil {
		c.Metadata = maps.Clone(i.Metadata)
	}
	return c
}

// WithMetadata returns a copy of the record whose metadata holds key=value in
// addition to every existing key. The receiver is not modified.
func (i *Item) WithMetadata(key string, value any) *Item {
	c := i.Clone()
	if c.Metadata == nil {
		c.Metadata = make(map[string]any, 1)
	}
	c.Metadata[key] = value
	return c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// TitleOr returns the title or def when absent.
func (i *Item) TitleOr(def string) string { return valueOr(i.Title, def) }

// SourceOr returns the source or def when absent.
func (i *Item) SourceOr(def string) string { return valueOr(i.Source, def) }

// AuthorOr returns the author or def when absent.
func (i *Item) AuthorOr(def string) string { return valueOr(i.Author, def) }

// ContentOr returns the content or def when absent.
func (i *Item) ContentOr(def string) string { return valueOr(i.Content, def) }

// MetadataString returns metadata[key] when it is a string.
func (i *Item) MetadataString(key string) string {
	if i.Metadata == nil {
		return ""
	}
	s, _ := i.Metadata[key].(string)
	return s
}

func valueOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}
