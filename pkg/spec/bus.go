package spec

import (
	"fmt"
	"iter"

	"github.com/parsecan/parsecan-go/pkg/frame"
	"github.com/parsecan/parsecan-go/pkg/plural"
)

// View is the capability set shared by Bus and FilteredBus.
type View interface {
	// Name returns the bus name.
	Name() string

	// Baudrate returns the bus bit rate in bits per second.
	Baudrate() uint32

	// Extended reports whether the bus uses 29-bit addressing.
	Extended() bool

	// All returns the messages visible through the view.
	All() iter.Seq[*Message]

	// Unpack decodes a frame against every visible message.
	Unpack(f *frame.Frame, opts ...UnpackOption) Decoded

	String() string
}

// Bus is the specification of one CAN bus and the messages that flow on it.
//
// A Bus is not safe for concurrent mutation. Build it once, then share it
// between readers.
type Bus struct {
	name     string
	baudrate uint32
	extended bool
	messages *plural.Unique[*Message]
}

// NewBus builds a bus from src. On error no bus is returned.
func NewBus(name string, baudrate uint32, extended bool, src MessageSource) (*Bus, error) {
	if baudrate == 0 {
		return nil, fmt.Errorf("in bus %s: %w", name, ErrInvalidBaudrate)
	}

	msgs, err := normalizeMessages(name, src)
	if err != nil {
		return nil, err
	}

	return &Bus{
		name:     name,
		baudrate: baudrate,
		extended: extended,
		messages: msgs,
	}, nil
}

// Name returns the bus name.
func (b *Bus) Name() string {
	return b.name
}

// Baudrate returns the bus bit rate.
func (b *Bus) Baudrate() uint32 {
	return b.baudrate
}

// Extended reports whether the bus uses 29-bit addressing.
func (b *Bus) Extended() bool {
	return b.extended
}

// Messages returns the collection owned by the bus. Changes made through it
// are visible to every view over the bus.
func (b *Bus) Messages() *plural.Unique[*Message] {
	return b.messages
}

// SetMessages replaces the message collection with one built from src. The
// current collection is kept if src fails to build.
func (b *Bus) SetMessages(src MessageSource) error {
	msgs, err := normalizeMessages(b.name, src)
	if err != nil {
		return err
	}
	b.messages = msgs
	return nil
}

// All returns the bus messages in insertion order.
func (b *Bus) All() iter.Seq[*Message] {
	return b.messages.All()
}

// MessageByName returns the message with the given name.
func (b *Bus) MessageByName(name string) (*Message, error) {
	return MessageName.Lookup(b.messages, name)
}

// MessageByID returns the message with the given identifier.
func (b *Bus) MessageByID(id uint32) (*Message, error) {
	return MessageID.Lookup(b.messages, id)
}

// Unpack decodes f against every message of the bus. Only messages that
// return non-empty fields appear in the result.
func (b *Bus) Unpack(f *frame.Frame, opts ...UnpackOption) Decoded {
	return unpackAll(b.All(), f, b.extended, opts)
}

// String returns the bus name.
func (b *Bus) String() string {
	return b.name
}

// unpackAll fans f out to msgs. The addressing mode of the bus is applied
// first so callers can still override it.
func unpackAll(msgs iter.Seq[*Message], f *frame.Frame, extended bool, opts []UnpackOption) Decoded {
	o := unpackOptions{extended: extended}
	for _, opt := range opts {
		opt(&o)
	}

	decoded := make(Decoded)
	for m := range msgs {
		if fields := m.unpack(f, o); len(fields) > 0 {
			decoded[m.name] = fields
		}
	}
	return decoded
}

// Compile-time interface satisfaction check.
var _ View = (*Bus)(nil)
