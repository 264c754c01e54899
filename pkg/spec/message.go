package spec

import (
	"fmt"
	"iter"

	"github.com/parsecan/parsecan-go/pkg/frame"
	"github.com/parsecan/parsecan-go/pkg/plural"
)

// Message keys. A bus holds its messages unique by both.
var (
	MessageName = plural.NewKey("name", (*Message).Name)
	MessageID   = plural.NewKey("id", (*Message).ID)
)

// SignalName is the key signals of a message are unique by.
var SignalName = plural.NewKey("name", (*Signal).Name)

// NewMessages returns an empty message collection keyed by name and id.
func NewMessages() *plural.Unique[*Message] {
	return plural.New[*Message](MessageName, MessageID)
}

// MessageFields are the constructor fields of a Message. The name is passed
// separately since specifications key messages by name.
type MessageFields struct {
	ID uint32

	// Length is the payload length in bytes. Zero accepts any length and
	// lets each signal check that its own bits are present.
	Length int

	Description string
	Signals     []SignalFields
}

// Message describes the payload layout of one frame identifier. A message is
// immutable once built.
type Message struct {
	name        string
	id          uint32
	length      int
	description string
	signals     *plural.Unique[*Signal]
}

// NewMessage validates f and builds a message named name.
func NewMessage(name string, f MessageFields) (*Message, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidMessage)
	}
	if f.ID > frame.MaxExtendedID {
		return nil, fmt.Errorf("%w: id 0x%X exceeds 29 bits", ErrInvalidMessage, f.ID)
	}
	if f.Length < 0 || f.Length > frame.MaxDataLength {
		return nil, fmt.Errorf("%w: length %d not in [0, %d]", ErrInvalidMessage, f.Length, frame.MaxDataLength)
	}

	m := &Message{
		name:        name,
		id:          f.ID,
		length:      f.Length,
		description: f.Description,
		signals:     plural.New[*Signal](SignalName),
	}

	for _, sf := range f.Signals {
		s, err := NewSignal(sf)
		if err != nil {
			return nil, fmt.Errorf("in signal %s: %w", sf.Name, err)
		}
		if m.length > 0 && s.End() > 8*m.length {
			return nil, fmt.Errorf("in signal %s: %w: ends at bit %d of a %d-byte payload",
				sf.Name, ErrInvalidSignal, s.End(), m.length)
		}
		if err := m.signals.Add(s); err != nil {
			return nil, fmt.Errorf("in signal %s: %w", sf.Name, err)
		}
	}
	return m, nil
}

// Name returns the message name.
func (m *Message) Name() string {
	return m.name
}

// ID returns the frame identifier the message is sent with.
func (m *Message) ID() uint32 {
	return m.id
}

// Length returns the declared payload length, 0 if unconstrained.
func (m *Message) Length() int {
	return m.length
}

// Description returns the free-form description.
func (m *Message) Description() string {
	return m.description
}

// Signals returns the signals in declaration order.
func (m *Message) Signals() iter.Seq[*Signal] {
	return m.signals.All()
}

// Signal returns the signal with the given name.
func (m *Message) Signal(name string) (*Signal, error) {
	return SignalName.Lookup(m.signals, name)
}

// Matches reports whether f is a frame of this message under the given
// options.
func (m *Message) Matches(f *frame.Frame, opts ...UnpackOption) bool {
	return m.matches(f, buildUnpackOptions(opts))
}

func (m *Message) matches(f *frame.Frame, o unpackOptions) bool {
	if f == nil || f.ID != m.id || f.Extended != o.extended {
		return false
	}
	return len(f.Data) >= m.length
}

// Unpack decodes f. It returns nil when f is not a frame of this message.
// Signals whose bits are missing from a short payload are left out.
func (m *Message) Unpack(f *frame.Frame, opts ...UnpackOption) Fields {
	return m.unpack(f, buildUnpackOptions(opts))
}

func (m *Message) unpack(f *frame.Frame, o unpackOptions) Fields {
	if !m.matches(f, o) {
		return nil
	}

	fields := make(Fields, m.signals.Len())
	for s := range m.signals.All() {
		if v, ok := s.decode(f.Data, o); ok {
			fields[s.name] = v
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// String returns the message name.
func (m *Message) String() string {
	return m.name
}
