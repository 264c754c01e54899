package spec

import (
	"testing"

	"github.com/parsecan/parsecan-go/pkg/frame"
	"github.com/parsecan/parsecan-go/pkg/plural"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engineFields() MessageFields {
	return MessageFields{
		ID:     0x100,
		Length: 4,
		Signals: []SignalFields{
			{Name: "rpm", Start: 0, Length: 16, LittleEndian: true, Scale: 0.25, Unit: "rpm"},
			{Name: "coolant", Start: 16, Length: 8, LittleEndian: true, Offset: -40, Unit: "degC"},
			{Name: "state", Start: 24, Length: 2, LittleEndian: true, Enumerations: []EnumerationFields{
				{Name: "OFF", Value: 0},
				{Name: "RUNNING", Value: 1},
			}},
		},
	}
}

func TestNewMessage(t *testing.T) {
	m, err := NewMessage("engine", engineFields())
	require.NoError(t, err)

	assert.Equal(t, "engine", m.Name())
	assert.Equal(t, "engine", m.String())
	assert.Equal(t, uint32(0x100), m.ID())
	assert.Equal(t, 4, m.Length())

	var names []string
	for s := range m.Signals() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"rpm", "coolant", "state"}, names)

	s, err := m.Signal("coolant")
	require.NoError(t, err)
	assert.Equal(t, "degC", s.Unit())
}

func TestNewMessageValidation(t *testing.T) {
	tests := []struct {
		name    string
		msgName string
		fields  MessageFields
		want    error
	}{
		{"missing name", "", MessageFields{ID: 1}, ErrInvalidMessage},
		{"id too large", "m", MessageFields{ID: 0x20000000}, ErrInvalidMessage},
		{"length too large", "m", MessageFields{ID: 1, Length: 9}, ErrInvalidMessage},
		{"signal past length", "m", MessageFields{ID: 1, Length: 1, Signals: []SignalFields{
			{Name: "s", Start: 4, Length: 8},
		}}, ErrInvalidSignal},
		{"duplicate signal", "m", MessageFields{ID: 1, Signals: []SignalFields{
			{Name: "s", Length: 8},
			{Name: "s", Start: 8, Length: 8},
		}}, plural.ErrDuplicateKey},
		{"bad enumeration", "m", MessageFields{ID: 1, Signals: []SignalFields{
			{Name: "s", Length: 1, Enumerations: []EnumerationFields{{Name: "X", Value: 2}}},
		}}, ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMessage(tt.msgName, tt.fields)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, m)
		})
	}
}

func TestNewMessageSignalErrorNamesSignal(t *testing.T) {
	_, err := NewMessage("m", MessageFields{ID: 1, Signals: []SignalFields{{Name: "broken", Length: 0}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "in signal broken")
}

func TestMessageUnpack(t *testing.T) {
	m, err := NewMessage("engine", engineFields())
	require.NoError(t, err)

	f := frame.New(0x100, []byte{0x40, 0x1F, 0x82, 0x01})
	fields := m.Unpack(f)
	require.NotNil(t, fields)

	assert.Equal(t, 2000.0, fields["rpm"].Physical)
	assert.Equal(t, 90.0, fields["coolant"].Physical)
	assert.Equal(t, "RUNNING", fields["state"].Label)
	assert.Equal(t, []string{"coolant", "rpm", "state"}, fields.Names())
}

func TestMessageUnpackNoMatch(t *testing.T) {
	m, err := NewMessage("engine", engineFields())
	require.NoError(t, err)

	tests := []struct {
		name string
		f    *frame.Frame
		opts []UnpackOption
	}{
		{"nil frame", nil, nil},
		{"other id", frame.New(0x101, []byte{1, 2, 3, 4}), nil},
		{"extended frame on standard", frame.NewExtended(0x100, []byte{1, 2, 3, 4}), nil},
		{"standard frame on extended", frame.New(0x100, []byte{1, 2, 3, 4}), []UnpackOption{WithExtended(true)}},
		{"short payload", frame.New(0x100, []byte{1, 2}), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, m.Unpack(tt.f, tt.opts...))
			assert.False(t, m.Matches(tt.f, tt.opts...))
		})
	}

	fields := m.Unpack(frame.NewExtended(0x100, []byte{1, 2, 3, 4}), WithExtended(true))
	assert.NotNil(t, fields)
}

func TestMessageUnpackUnconstrainedLength(t *testing.T) {
	m, err := NewMessage("partial", MessageFields{ID: 0x10, Signals: []SignalFields{
		{Name: "a", Start: 0, Length: 8, LittleEndian: true},
		{Name: "b", Start: 8, Length: 8, LittleEndian: true},
	}})
	require.NoError(t, err)

	fields := m.Unpack(frame.New(0x10, []byte{7}))
	require.Len(t, fields, 1)
	assert.Equal(t, int64(7), fields["a"].Raw)

	assert.Nil(t, m.Unpack(frame.New(0x10, nil)), "no decodable signal is no match")
}

func TestMessageWithoutSignalsNeverMatches(t *testing.T) {
	m, err := NewMessage("empty", MessageFields{ID: 0x10})
	require.NoError(t, err)

	assert.True(t, m.Matches(frame.New(0x10, nil)))
	assert.Nil(t, m.Unpack(frame.New(0x10, nil)))
}
