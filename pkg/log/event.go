package log

import (
	"strings"
	"time"

	"github.com/parsecan/parsecan-go/pkg/frame"
	"github.com/parsecan/parsecan-go/pkg/spec"
)

// Event is one decode trace record.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies the decode session (UUID).
	SessionID string `cbor:"2,keyasint"`

	// Bus is the name of the bus the frame was decoded against.
	Bus string `cbor:"3,keyasint,omitempty"`

	// Category classifies the event.
	Category Category `cbor:"4,keyasint"`

	Frame   *FrameEvent  `cbor:"5,keyasint,omitempty"`
	Decoded spec.Decoded `cbor:"6,keyasint,omitempty"`
	Error   *ErrorEvent  `cbor:"7,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryDecoded indicates at least one message decoded the frame.
	CategoryDecoded Category = 0
	// CategoryUnmatched indicates no message matched the frame.
	CategoryUnmatched Category = 1
	// CategoryError indicates the input could not be processed.
	CategoryError Category = 2
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryDecoded:
		return "DECODED"
	case CategoryUnmatched:
		return "UNMATCHED"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory returns the category with the given name, ignoring case.
func ParseCategory(s string) (Category, bool) {
	for _, c := range []Category{CategoryDecoded, CategoryUnmatched, CategoryError} {
		if strings.EqualFold(c.String(), s) {
			return c, true
		}
	}
	return 0, false
}

// FrameEvent captures the raw frame.
type FrameEvent struct {
	ID       uint32 `cbor:"1,keyasint"`
	Extended bool   `cbor:"2,keyasint,omitempty"`
	Data     []byte `cbor:"3,keyasint,omitempty"`
}

// NewFrameEvent captures f. The data is copied.
func NewFrameEvent(f *frame.Frame) *FrameEvent {
	if f == nil {
		return nil
	}
	return &FrameEvent{ID: f.ID, Extended: f.Extended, Data: append([]byte(nil), f.Data...)}
}

// ToFrame rebuilds the captured frame.
func (e *FrameEvent) ToFrame(ts time.Time) *frame.Frame {
	return &frame.Frame{ID: e.ID, Extended: e.Extended, Data: e.Data, Timestamp: ts}
}

// ErrorEvent captures an input that could not be decoded.
type ErrorEvent struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes the input being processed, e.g. the frame text.
	Context string `cbor:"2,keyasint,omitempty"`
}
