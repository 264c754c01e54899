package spec

import (
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/parsecan/parsecan-go/pkg/frame"
)

// FilteredBus narrows a Bus to the messages named by a set of interests.
// It references the bus, never copies it, and must not outlive it.
type FilteredBus struct {
	bus       *Bus
	interests []any

	ids   map[uint32]struct{}
	names map[string]struct{}
}

// NewFilteredBus creates a view of bus restricted to interests. An interest
// is a message id (any Go integer type) or a message name (string). Every
// interest must resolve to a message of the bus now; otherwise an
// *InvalidInterestError is returned. A nil bus yields ErrNilBus.
func NewFilteredBus(bus *Bus, interests ...any) (*FilteredBus, error) {
	if bus == nil {
		return nil, ErrNilBus
	}
	fb := &FilteredBus{bus: bus}
	if err := fb.SetInterests(interests...); err != nil {
		return nil, err
	}
	return fb, nil
}

// SetInterests validates and replaces the interests. On error the previous
// interests are kept.
func (fb *FilteredBus) SetInterests(interests ...any) error {
	ids := make(map[uint32]struct{})
	names := make(map[string]struct{})

	for _, interest := range interests {
		switch v := interest.(type) {
		case string:
			if _, err := fb.bus.MessageByName(v); err != nil {
				return fb.invalid(interest, "does not exist in the bus")
			}
			names[v] = struct{}{}
		default:
			id, integer, ok := interestID(interest)
			if !integer {
				return fb.invalid(interest, fmt.Sprintf("must be an integer id or a string name, not %T", interest))
			}
			if !ok {
				return fb.invalid(interest, "does not exist in the bus")
			}
			if _, err := fb.bus.MessageByID(id); err != nil {
				return fb.invalid(interest, "does not exist in the bus")
			}
			ids[id] = struct{}{}
		}
	}

	fb.interests = slices.Clone(interests)
	fb.ids = ids
	fb.names = names
	return nil
}

func (fb *FilteredBus) invalid(interest any, reason string) error {
	return &InvalidInterestError{Bus: fb.bus.Name(), Interest: interest, Reason: reason}
}

// interestID converts any Go integer to a message id. integer reports
// whether v has an integer type at all; ok reports whether it also fits the
// uint32 id range.
func interestID(v any) (id uint32, integer, ok bool) {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int8:
		n = int64(x)
	case int16:
		n = int64(x)
	case int32:
		n = int64(x)
	case int64:
		n = x
	case uint:
		return uint32(x), true, uint64(x) <= math.MaxUint32
	case uint8:
		return uint32(x), true, true
	case uint16:
		return uint32(x), true, true
	case uint32:
		return x, true, true
	case uint64:
		return uint32(x), true, x <= math.MaxUint32
	default:
		return 0, false, false
	}
	if n < 0 || n > math.MaxUint32 {
		return 0, true, false
	}
	return uint32(n), true, true
}

// Interests returns the interests in the order they were given.
func (fb *FilteredBus) Interests() []any {
	return slices.Clone(fb.interests)
}

// Bus returns the wrapped bus.
func (fb *FilteredBus) Bus() *Bus {
	return fb.bus
}

// Interested reports whether the name or the id of m is an interest.
func (fb *FilteredBus) Interested(m *Message) bool {
	if _, ok := fb.names[m.Name()]; ok {
		return true
	}
	_, ok := fb.ids[m.ID()]
	return ok
}

// Messages returns the interesting messages of the wrapped bus in bus order.
// Every pass filters the bus's current collection; nothing is cached.
func (fb *FilteredBus) Messages() iter.Seq[*Message] {
	return func(yield func(*Message) bool) {
		for m := range fb.bus.Messages().All() {
			if fb.Interested(m) && !yield(m) {
				return
			}
		}
	}
}

// All is Messages, satisfying View.
func (fb *FilteredBus) All() iter.Seq[*Message] {
	return fb.Messages()
}

// Name returns the name of the wrapped bus.
func (fb *FilteredBus) Name() string {
	return fb.bus.Name()
}

// Baudrate returns the bit rate of the wrapped bus.
func (fb *FilteredBus) Baudrate() uint32 {
	return fb.bus.Baudrate()
}

// Extended returns the addressing mode of the wrapped bus.
func (fb *FilteredBus) Extended() bool {
	return fb.bus.Extended()
}

// Unpack decodes f against the interesting messages only, using the
// addressing mode of the wrapped bus.
func (fb *FilteredBus) Unpack(f *frame.Frame, opts ...UnpackOption) Decoded {
	return unpackAll(fb.Messages(), f, fb.bus.Extended(), opts)
}

// String returns the name of the wrapped bus.
func (fb *FilteredBus) String() string {
	return fb.bus.String()
}

// Compile-time interface satisfaction check.
var _ View = (*FilteredBus)(nil)
