package spec

import (
	"encoding/binary"
	"fmt"
	"iter"
	"math"

	"github.com/parsecan/parsecan-go/pkg/plural"
)

// EnumerationName is the key enumerations of a signal are unique by.
var EnumerationName = plural.NewKey("name", (*Enumeration).Name)

// EnumerationFields are the constructor fields of a signal enumeration.
type EnumerationFields struct {
	Name  string
	Value int64
}

// SignalFields are the constructor fields of a Signal.
type SignalFields struct {
	Name string

	// Start is the first bit of the signal. For little-endian signals it is
	// counted from the least significant bit of byte 0; for big-endian
	// signals from the most significant bit of byte 0.
	Start int

	// Length is the signal width in bits, 1 to 64.
	Length int

	LittleEndian bool
	Signed       bool

	// Scale defaults to 1 when zero.
	Scale  float64
	Offset float64

	Unit        string
	Description string

	Enumerations []EnumerationFields
}

// Signal is one field of a message payload.
type Signal struct {
	name         string
	start        int
	length       int
	littleEndian bool
	signed       bool
	scale        float64
	offset       float64
	unit         string
	description  string
	enumerations *plural.Unique[*Enumeration]
}

// NewSignal validates f and builds a signal. Enumeration values are bounded
// by the largest raw value the signal can carry.
func NewSignal(f SignalFields) (*Signal, error) {
	if f.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidSignal)
	}
	if f.Length < 1 || f.Length > 64 {
		return nil, fmt.Errorf("%w: length %d not in [1, 64]", ErrInvalidSignal, f.Length)
	}
	if f.Start < 0 || f.Start+f.Length > 64 {
		return nil, fmt.Errorf("%w: bits [%d, %d) exceed 64-bit payload", ErrInvalidSignal, f.Start, f.Start+f.Length)
	}

	s := &Signal{
		name:         f.Name,
		start:        f.Start,
		length:       f.Length,
		littleEndian: f.LittleEndian,
		signed:       f.Signed,
		scale:        f.Scale,
		offset:       f.Offset,
		unit:         f.Unit,
		description:  f.Description,
		enumerations: plural.New[*Enumeration](EnumerationName),
	}
	if s.scale == 0 {
		s.scale = 1
	}

	for _, ef := range f.Enumerations {
		e, err := NewBoundedEnumeration(ef.Name, ef.Value, s.mask())
		if err != nil {
			return nil, err
		}
		if err := s.enumerations.Add(e); err != nil {
			return nil, fmt.Errorf("enumeration %s: %w", ef.Name, err)
		}
	}
	return s, nil
}

func (s *Signal) Name() string        { return s.name }
func (s *Signal) Start() int          { return s.start }
func (s *Signal) Length() int         { return s.length }
func (s *Signal) LittleEndian() bool  { return s.littleEndian }
func (s *Signal) Signed() bool        { return s.signed }
func (s *Signal) Scale() float64      { return s.scale }
func (s *Signal) Offset() float64     { return s.offset }
func (s *Signal) Unit() string        { return s.unit }
func (s *Signal) Description() string { return s.description }

// Enumerations returns the signal's enumerations in declaration order.
func (s *Signal) Enumerations() iter.Seq[*Enumeration] {
	return s.enumerations.All()
}

// Enumeration returns the enumeration with the given name.
func (s *Signal) Enumeration(name string) (*Enumeration, error) {
	return EnumerationName.Lookup(s.enumerations, name)
}

// Label returns the name of the first enumeration containing raw, or "".
// Enumerations match the unsigned bit pattern of the signal.
func (s *Signal) Label(raw uint64) string {
	for e := range s.enumerations.All() {
		if raw <= math.MaxInt64 && e.Contains(int64(raw)) {
			return e.Name()
		}
	}
	return ""
}

// End returns the bit following the signal in its own numbering.
func (s *Signal) End() int {
	return s.start + s.length
}

func (s *Signal) mask() uint64 {
	if s.length == 64 {
		return ^uint64(0)
	}
	return 1<<uint(s.length) - 1
}

// extract reads the unsigned bit pattern of the signal from data. It returns
// false when data is too short to hold the signal.
func (s *Signal) extract(data []byte) (uint64, bool) {
	if s.End() > 8*len(data) {
		return 0, false
	}

	var buf [8]byte
	copy(buf[:], data)

	var bits uint64
	if s.littleEndian {
		bits = binary.LittleEndian.Uint64(buf[:]) >> uint(s.start)
	} else {
		bits = binary.BigEndian.Uint64(buf[:]) >> uint(64-s.End())
	}
	return bits & s.mask(), true
}

// Decode reads the signal from data. It returns false when data is too short.
func (s *Signal) Decode(data []byte, opts ...UnpackOption) (Value, bool) {
	return s.decode(data, buildUnpackOptions(opts))
}

func (s *Signal) decode(data []byte, o unpackOptions) (Value, bool) {
	bits, ok := s.extract(data)
	if !ok {
		return Value{}, false
	}

	raw := int64(bits)
	if s.signed && s.length < 64 && bits&(1<<uint(s.length-1)) != 0 {
		raw = int64(bits | ^s.mask())
	}

	if o.raw {
		return Value{Raw: raw, Physical: float64(raw)}, true
	}
	return Value{
		Raw:      raw,
		Physical: float64(raw)*s.scale + s.offset,
		Unit:     s.unit,
		Label:    s.Label(bits),
	}, true
}
