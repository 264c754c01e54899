package spec

import (
	"fmt"
	"math"
)

// DefaultMaxValue bounds an Enumeration created without an explicit maximum.
const DefaultMaxValue uint64 = math.MaxUint64

// Enumeration is a named raw value of a signal, constrained to
// [0, MaxValue]. The constraint holds after construction and after every
// successful SetValue.
type Enumeration struct {
	name     string
	value    int64
	maxValue uint64
}

// NewEnumeration creates an enumeration bounded by DefaultMaxValue.
func NewEnumeration(name string, value int64) (*Enumeration, error) {
	return NewBoundedEnumeration(name, value, DefaultMaxValue)
}

// NewBoundedEnumeration creates an enumeration bounded by maxValue.
func NewBoundedEnumeration(name string, value int64, maxValue uint64) (*Enumeration, error) {
	if err := checkRange(value, maxValue); err != nil {
		return nil, fmt.Errorf("enumeration %s: %w", name, err)
	}
	return &Enumeration{name: name, value: value, maxValue: maxValue}, nil
}

func checkRange(value int64, maxValue uint64) error {
	if value < 0 || uint64(value) > maxValue {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, value, maxValue)
	}
	return nil
}

// Name returns the enumeration name.
func (e *Enumeration) Name() string {
	return e.name
}

// Value returns the current value.
func (e *Enumeration) Value() int64 {
	return e.value
}

// MaxValue returns the inclusive upper bound.
func (e *Enumeration) MaxValue() uint64 {
	return e.maxValue
}

// SetValue replaces the value. An out-of-range value is rejected and the
// previous value is kept.
func (e *Enumeration) SetValue(value int64) error {
	if err := checkRange(value, e.maxValue); err != nil {
		return fmt.Errorf("enumeration %s: %w", e.name, err)
	}
	e.value = value
	return nil
}

// Contains reports whether raw equals the enumeration value.
func (e *Enumeration) Contains(raw int64) bool {
	return e.value == raw
}

// Equal compares name and value. The bound is not part of equality.
func (e *Enumeration) Equal(other *Enumeration) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.name == other.name && e.value == other.value
}

// String returns "name(value)".
func (e *Enumeration) String() string {
	return fmt.Sprintf("%s(%d)", e.name, e.value)
}
