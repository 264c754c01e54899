package spec

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// Value is one decoded signal.
type Value struct {
	// Raw is the integer read from the payload, sign-extended for signed
	// signals.
	Raw int64 `cbor:"1,keyasint" json:"raw"`

	// Physical is Raw*Scale+Offset, or Raw when decoding with WithRaw.
	Physical float64 `cbor:"2,keyasint" json:"physical"`

	Unit  string `cbor:"3,keyasint,omitempty" json:"unit,omitempty"`
	Label string `cbor:"4,keyasint,omitempty" json:"label,omitempty"`
}

// String renders the value as "label (raw)" for enumerated values and as
// "physical unit" otherwise.
func (v Value) String() string {
	if v.Label != "" {
		return fmt.Sprintf("%s (%d)", v.Label, v.Raw)
	}
	s := strconv.FormatFloat(v.Physical, 'g', -1, 64)
	if v.Unit != "" {
		s += " " + v.Unit
	}
	return s
}

// Fields maps signal name to decoded value for one message.
type Fields map[string]Value

// Names returns the signal names in sorted order.
func (f Fields) Names() []string {
	return slices.Sorted(maps.Keys(f))
}

// Decoded maps message name to decoded fields for every message that matched
// a frame.
type Decoded map[string]Fields

// Names returns the matched message names in sorted order.
func (d Decoded) Names() []string {
	return slices.Sorted(maps.Keys(d))
}

// UnpackOption configures decoding.
type UnpackOption func(*unpackOptions)

type unpackOptions struct {
	extended bool
	raw      bool
}

// WithExtended selects the addressing mode frames must use to match. Bus
// sets it from its own mode; it defaults to standard addressing.
func WithExtended(extended bool) UnpackOption {
	return func(o *unpackOptions) {
		o.extended = extended
	}
}

// WithRaw skips scaling and enumeration labels: Physical equals Raw.
func WithRaw() UnpackOption {
	return func(o *unpackOptions) {
		o.raw = true
	}
}

func buildUnpackOptions(opts []UnpackOption) unpackOptions {
	var o unpackOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
