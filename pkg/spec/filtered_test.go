package spec

import (
	"errors"
	"testing"

	"github.com/parsecan/parsecan-go/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilteredBusMessages(t *testing.T) {
	bus := xyzBus(t)

	fb, err := NewFilteredBus(bus, 1, "z")
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "z"}, messageNames(fb.Messages()))
	assert.Equal(t, []string{"x", "z"}, messageNames(fb.All()))
	assert.Equal(t, []any{1, "z"}, fb.Interests())
	assert.Same(t, bus, fb.Bus())

	// Sequences are restartable.
	seq := fb.Messages()
	assert.Equal(t, messageNames(seq), messageNames(seq))
}

func TestFilteredBusKeepsBusOrder(t *testing.T) {
	bus := xyzBus(t)

	fb, err := NewFilteredBus(bus, "z", uint32(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "z"}, messageNames(fb.Messages()))
}

func TestFilteredBusInterestTypes(t *testing.T) {
	bus := xyzBus(t)

	for _, interest := range []any{int8(1), int16(1), int32(1), int64(1), uint(1), uint8(1), uint16(1), uint32(1), uint64(1)} {
		fb, err := NewFilteredBus(bus, interest)
		require.NoError(t, err, "%T", interest)
		assert.Equal(t, []string{"x"}, messageNames(fb.Messages()))
	}
}

func TestFilteredBusInvalidInterest(t *testing.T) {
	bus := xyzBus(t)

	tests := []struct {
		name     string
		interest any
		reason   string
	}{
		{"unknown id", 99, "does not exist"},
		{"unknown name", "nope", "does not exist"},
		{"float", 4.5, "must be an integer id or a string name"},
		{"negative", -1, "does not exist"},
		{"too large", int64(1) << 40, "does not exist"},
		{"too large unsigned", uint64(1) << 33, "does not exist"},
		{"nil", nil, "must be an integer id or a string name"},
		{"bool", true, "must be an integer id or a string name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, err := NewFilteredBus(bus, 1, tt.interest)
			assert.Nil(t, fb)
			require.ErrorIs(t, err, ErrInvalidInterest)

			var ie *InvalidInterestError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, "body", ie.Bus)
			assert.Equal(t, tt.interest, ie.Interest)
			assert.Contains(t, err.Error(), "in bus body")
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestNewFilteredBusNilBus(t *testing.T) {
	fb, err := NewFilteredBus(nil, 1)
	assert.Nil(t, fb)
	assert.ErrorIs(t, err, ErrNilBus)
}

func TestFilteredBusSetInterestsKeepsPrevious(t *testing.T) {
	fb, err := NewFilteredBus(xyzBus(t), "y")
	require.NoError(t, err)

	err = fb.SetInterests("x", 42)
	assert.ErrorIs(t, err, ErrInvalidInterest)
	assert.Equal(t, []string{"y"}, messageNames(fb.Messages()))

	require.NoError(t, fb.SetInterests("x", 3))
	assert.Equal(t, []string{"x", "z"}, messageNames(fb.Messages()))
}

func TestFilteredBusInterested(t *testing.T) {
	bus := xyzBus(t)
	fb, err := NewFilteredBus(bus, 1, "z")
	require.NoError(t, err)

	x, _ := bus.MessageByName("x")
	y, _ := bus.MessageByName("y")
	z, _ := bus.MessageByName("z")

	assert.True(t, fb.Interested(x))
	assert.False(t, fb.Interested(y))
	assert.True(t, fb.Interested(z))
}

func TestFilteredBusLiveReflection(t *testing.T) {
	bus := xyzBus(t)
	fb, err := NewFilteredBus(bus, 1, "z")
	require.NoError(t, err)

	require.NoError(t, bus.Messages().Add(mustMessage(t, "w", 4)))
	assert.Equal(t, []string{"x", "z"}, messageNames(fb.Messages()))

	_, err = bus.Messages().Remove("name", "z")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, messageNames(fb.Messages()))

	require.NoError(t, bus.SetMessages(FromList{mustMessage(t, "z", 30), mustMessage(t, "x", 10)}))
	assert.Equal(t, []string{"z"}, messageNames(fb.Messages()), "id 1 no longer exists, name z does")
}

func TestFilteredBusDelegates(t *testing.T) {
	bus := xyzBus(t)
	fb, err := NewFilteredBus(bus, "x")
	require.NoError(t, err)

	var v View = fb
	assert.Equal(t, bus.Name(), v.Name())
	assert.Equal(t, bus.Baudrate(), v.Baudrate())
	assert.Equal(t, bus.Extended(), v.Extended())
	assert.Equal(t, "body", v.String())
}

func TestFilteredBusUnpack(t *testing.T) {
	bus := xyzBus(t)
	fb, err := NewFilteredBus(bus, 1, "z")
	require.NoError(t, err)

	decoded := fb.Unpack(frame.New(1, []byte{9}))
	assert.Equal(t, int64(9), decoded["x"]["v"].Raw)

	assert.Empty(t, fb.Unpack(frame.New(2, []byte{9})), "y is outside the interests")
	assert.NotEmpty(t, bus.Unpack(frame.New(2, []byte{9})))
}
