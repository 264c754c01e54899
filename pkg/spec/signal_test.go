package spec

import (
	"slices"
	"testing"

	"github.com/parsecan/parsecan-go/pkg/plural"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSignalValidation(t *testing.T) {
	tests := []struct {
		name   string
		fields SignalFields
	}{
		{"missing name", SignalFields{Length: 8}},
		{"zero length", SignalFields{Name: "s", Length: 0}},
		{"too long", SignalFields{Name: "s", Length: 65}},
		{"negative start", SignalFields{Name: "s", Start: -1, Length: 8}},
		{"past payload", SignalFields{Name: "s", Start: 60, Length: 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSignal(tt.fields)
			assert.ErrorIs(t, err, ErrInvalidSignal)
		})
	}
}

func TestNewSignalEnumerations(t *testing.T) {
	s, err := NewSignal(SignalFields{
		Name:   "gear",
		Length: 2,
		Enumerations: []EnumerationFields{
			{Name: "PARK", Value: 0},
			{Name: "DRIVE", Value: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Scale(), "zero scale defaults to 1")

	var names []string
	for e := range s.Enumerations() {
		names = append(names, e.Name())
		assert.Equal(t, uint64(3), e.MaxValue())
	}
	assert.Equal(t, []string{"PARK", "DRIVE"}, names)

	e, err := s.Enumeration("DRIVE")
	require.NoError(t, err)
	assert.Equal(t, int64(3), e.Value())

	_, err = s.Enumeration("REVERSE")
	assert.ErrorIs(t, err, plural.ErrNotFound)

	assert.Equal(t, "DRIVE", s.Label(3))
	assert.Equal(t, "", s.Label(2))

	t.Run("value above signal range", func(t *testing.T) {
		_, err := NewSignal(SignalFields{
			Name:         "gear",
			Length:       2,
			Enumerations: []EnumerationFields{{Name: "TOO_BIG", Value: 4}},
		})
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, err := NewSignal(SignalFields{
			Name:   "gear",
			Length: 2,
			Enumerations: []EnumerationFields{
				{Name: "A", Value: 0},
				{Name: "A", Value: 1},
			},
		})
		assert.ErrorIs(t, err, plural.ErrDuplicateKey)
	})
}

func TestSignalDecodeLittleEndian(t *testing.T) {
	data := []byte{0x34, 0x12, 0xF0}

	s, err := NewSignal(SignalFields{Name: "word", Start: 0, Length: 16, LittleEndian: true})
	require.NoError(t, err)
	v, ok := s.Decode(data)
	require.True(t, ok)
	assert.Equal(t, int64(0x1234), v.Raw)

	s, err = NewSignal(SignalFields{Name: "nibble", Start: 20, Length: 4, LittleEndian: true})
	require.NoError(t, err)
	v, ok = s.Decode(data)
	require.True(t, ok)
	assert.Equal(t, int64(0xF), v.Raw)

	s, err = NewSignal(SignalFields{Name: "signed", Start: 16, Length: 8, LittleEndian: true, Signed: true})
	require.NoError(t, err)
	v, ok = s.Decode(data)
	require.True(t, ok)
	assert.Equal(t, int64(-16), v.Raw)
}

func TestSignalDecodeBigEndian(t *testing.T) {
	data := []byte{0x12, 0x34, 0x80}

	s, err := NewSignal(SignalFields{Name: "word", Start: 0, Length: 16})
	require.NoError(t, err)
	v, ok := s.Decode(data)
	require.True(t, ok)
	assert.Equal(t, int64(0x1234), v.Raw)

	s, err = NewSignal(SignalFields{Name: "nibble", Start: 4, Length: 8})
	require.NoError(t, err)
	v, ok = s.Decode(data)
	require.True(t, ok)
	assert.Equal(t, int64(0x23), v.Raw)

	s, err = NewSignal(SignalFields{Name: "flag", Start: 16, Length: 1})
	require.NoError(t, err)
	v, ok = s.Decode(data)
	require.True(t, ok)
	assert.Equal(t, int64(1), v.Raw)
}

func TestSignalDecodeScaling(t *testing.T) {
	s, err := NewSignal(SignalFields{
		Name:         "temp",
		Length:       8,
		LittleEndian: true,
		Scale:        0.5,
		Offset:       -40,
		Unit:         "degC",
	})
	require.NoError(t, err)

	v, ok := s.Decode([]byte{100})
	require.True(t, ok)
	assert.Equal(t, Value{Raw: 100, Physical: 10, Unit: "degC"}, v)
	assert.Equal(t, "10 degC", v.String())

	v, ok = s.Decode([]byte{100}, WithRaw())
	require.True(t, ok)
	assert.Equal(t, Value{Raw: 100, Physical: 100}, v)
}

func TestSignalDecodeShortPayload(t *testing.T) {
	s, err := NewSignal(SignalFields{Name: "word", Start: 8, Length: 16, LittleEndian: true})
	require.NoError(t, err)

	_, ok := s.Decode([]byte{0x01, 0x02})
	assert.False(t, ok)
}

func TestSignalDecodeFullWidth(t *testing.T) {
	s, err := NewSignal(SignalFields{Name: "all", Length: 64, LittleEndian: true})
	require.NoError(t, err)

	v, ok := s.Decode(slices.Repeat([]byte{0x01}, 8))
	require.True(t, ok)
	assert.Equal(t, int64(0x0101010101010101), v.Raw)
}

func TestSignalDecodeLabel(t *testing.T) {
	s, err := NewSignal(SignalFields{
		Name:         "state",
		Length:       8,
		LittleEndian: true,
		Enumerations: []EnumerationFields{{Name: "READY", Value: 2}},
	})
	require.NoError(t, err)

	v, ok := s.Decode([]byte{2})
	require.True(t, ok)
	assert.Equal(t, "READY", v.Label)
	assert.Equal(t, "READY (2)", v.String())

	v, ok = s.Decode([]byte{2}, WithRaw())
	require.True(t, ok)
	assert.Empty(t, v.Label)
}
