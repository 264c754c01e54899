// Package frame defines the raw CAN frame handed to message decoding.
package frame

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
)

// Identifier limits.
const (
	// MaxStandardID is the largest 11-bit identifier.
	MaxStandardID uint32 = 0x7FF

	// MaxExtendedID is the largest 29-bit identifier.
	MaxExtendedID uint32 = 0x1FFFFFFF

	// MaxDataLength is the classic CAN payload limit in bytes.
	MaxDataLength = 8
)

// ErrInvalidFrame is returned when a frame cannot be parsed or validated.
var ErrInvalidFrame = errors.New("invalid frame")

// Frame is a single CAN data frame.
type Frame struct {
	ID        uint32
	Extended  bool
	Data      []byte
	Timestamp time.Time
}

// New creates a standard (11-bit) frame.
func New(id uint32, data []byte) *Frame {
	return &Frame{ID: id, Data: data}
}

// NewExtended creates an extended (29-bit) frame.
func NewExtended(id uint32, data []byte) *Frame {
	return &Frame{ID: id, Extended: true, Data: data}
}

// Length returns the payload length.
func (f *Frame) Length() int {
	return len(f.Data)
}

// Validate checks the identifier against the addressing mode and the payload
// against the classic CAN length limit.
func (f *Frame) Validate() error {
	limit := MaxStandardID
	if f.Extended {
		limit = MaxExtendedID
	}
	if f.ID > limit {
		return fmt.Errorf("%w: id 0x%X exceeds 0x%X", ErrInvalidFrame, f.ID, limit)
	}
	if len(f.Data) > MaxDataLength {
		return fmt.Errorf("%w: %d data bytes, max %d", ErrInvalidFrame, len(f.Data), MaxDataLength)
	}
	return nil
}

// Parse reads a frame in candump compact notation: "123#DEADBEEF" for a
// standard frame, "1ABCDEF0#0102" for an extended one. An 8-digit identifier
// selects extended addressing. Separators between data bytes are not allowed.
func Parse(s string) (*Frame, error) {
	s = strings.TrimSpace(s)
	idPart, dataPart, ok := strings.Cut(s, "#")
	if !ok {
		return nil, fmt.Errorf("%w: %q: missing '#'", ErrInvalidFrame, s)
	}

	var extended bool
	switch len(idPart) {
	case 3:
	case 8:
		extended = true
	default:
		return nil, fmt.Errorf("%w: %q: identifier must have 3 or 8 hex digits", ErrInvalidFrame, s)
	}

	id, err := strconv.ParseUint(idPart, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFrame, s, err)
	}

	data, err := hex.DecodeString(dataPart)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFrame, s, err)
	}

	f := &Frame{ID: uint32(id), Extended: extended, Data: data}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Compact returns the frame in candump compact notation, the inverse of Parse.
func (f *Frame) Compact() string {
	if f.Extended {
		return fmt.Sprintf("%08X#%X", f.ID, f.Data)
	}
	return fmt.Sprintf("%03X#%X", f.ID, f.Data)
}

var (
	idColor   = color.New(color.FgGreen).SprintfFunc()
	dataColor = color.New(color.FgRed).SprintfFunc()
	textColor = color.New(color.FgHiBlue).SprintfFunc()
)

// String renders the frame as "id || len || hex || printable".
func (f *Frame) String() string {
	return fmt.Sprintf("%s || %d || %-23s || %s", f.idString(), len(f.Data), hexView(f.Data), onlyPrintable(f.Data))
}

// ColorString is String with terminal colors. Colors are dropped
// automatically when stdout is not a terminal.
func (f *Frame) ColorString() string {
	return fmt.Sprintf("%s || %d || %s || %s",
		idColor("%s", f.idString()),
		len(f.Data),
		dataColor("%-23s", hexView(f.Data)),
		textColor("%s", onlyPrintable(f.Data)),
	)
}

func (f *Frame) idString() string {
	if f.Extended {
		return fmt.Sprintf("0x%08X", f.ID)
	}
	return fmt.Sprintf("0x%03X", f.ID)
}

func hexView(data []byte) string {
	var b strings.Builder
	for i, v := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02X", v)
	}
	return b.String()
}

func onlyPrintable(data []byte) string {
	var b strings.Builder
	for _, v := range data {
		if v < 32 || v > 126 {
			b.WriteString("·")
		} else {
			b.WriteByte(v)
		}
	}
	return b.String()
}
