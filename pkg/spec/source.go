package spec

import (
	"fmt"

	"github.com/parsecan/parsecan-go/pkg/plural"
)

// MessageSource is the input a Bus builds its message collection from. It is
// implemented by FromCollection, FromList and FromMapping only.
type MessageSource interface {
	isMessageSource()
}

// FromCollection supplies an existing collection. The bus copies it and
// never mutates the original.
type FromCollection struct {
	Messages *plural.Unique[*Message]
}

// FromList supplies built messages, added in order.
type FromList []*Message

// FromMapping supplies messages keyed by name, built and added in order.
type FromMapping []MappingEntry

// MappingEntry is one named message of a FromMapping source. Exactly one of
// Message and Fields must be set.
type MappingEntry struct {
	Name    string
	Message *Message
	Fields  *MessageFields
}

func (FromCollection) isMessageSource() {}
func (FromList) isMessageSource()       {}
func (FromMapping) isMessageSource()    {}

// normalizeMessages builds a fresh collection from src. Construction failures
// of mapping entries are returned as *ConstructionError; duplicate keys as
// plural errors. The returned collection never shares storage with src.
func normalizeMessages(bus string, src MessageSource) (*plural.Unique[*Message], error) {
	msgs := NewMessages()

	switch s := src.(type) {
	case nil:
		return msgs, nil

	case FromCollection:
		if s.Messages == nil {
			return msgs, nil
		}
		// Rebuilt under the name and id keys whatever keys the source declares.
		if err := msgs.Extend(s.Messages.Items()...); err != nil {
			return nil, fmt.Errorf("in bus %s: %w", bus, err)
		}
		return msgs, nil

	case FromList:
		for _, m := range s {
			if m == nil {
				return nil, fmt.Errorf("in bus %s: %w: nil message", bus, ErrInvalidMessage)
			}
		}
		if err := msgs.Extend(s...); err != nil {
			return nil, fmt.Errorf("in bus %s: %w", bus, err)
		}
		return msgs, nil

	case FromMapping:
		for _, entry := range s {
			m, err := entry.build()
			if err != nil {
				return nil, &ConstructionError{Bus: bus, Message: entry.Name, Err: err}
			}
			if err := msgs.Add(m); err != nil {
				return nil, &ConstructionError{Bus: bus, Message: entry.Name, Err: err}
			}
		}
		return msgs, nil

	default:
		return nil, fmt.Errorf("in bus %s: unsupported message source %T", bus, src)
	}
}

func (e MappingEntry) build() (*Message, error) {
	switch {
	case e.Message != nil && e.Fields != nil:
		return nil, fmt.Errorf("%w: both message and fields given", ErrInvalidMessage)
	case e.Message != nil:
		if e.Message.Name() != e.Name {
			return nil, fmt.Errorf("%w: keyed as %q but named %q", ErrInvalidMessage, e.Name, e.Message.Name())
		}
		return e.Message, nil
	case e.Fields != nil:
		return NewMessage(e.Name, *e.Fields)
	default:
		return nil, fmt.Errorf("%w: empty entry", ErrInvalidMessage)
	}
}
