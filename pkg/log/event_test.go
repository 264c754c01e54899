package log

import (
	"testing"
	"time"

	"github.com/parsecan/parsecan-go/pkg/frame"
)

func TestCategoryString(t *testing.T) {
	tests := []struct {
		cat  Category
		want string
	}{
		{CategoryDecoded, "DECODED"},
		{CategoryUnmatched, "UNMATCHED"},
		{CategoryError, "ERROR"},
		{Category(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.cat.String(); got != tt.want {
			t.Errorf("Category(%d).String() = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, s := range []string{"decoded", "DECODED", "Decoded"} {
		c, ok := ParseCategory(s)
		if !ok || c != CategoryDecoded {
			t.Errorf("ParseCategory(%q) = %v, %v", s, c, ok)
		}
	}
	if c, ok := ParseCategory("unmatched"); !ok || c != CategoryUnmatched {
		t.Errorf("ParseCategory(unmatched) = %v, %v", c, ok)
	}
	if _, ok := ParseCategory("bogus"); ok {
		t.Error("ParseCategory(bogus) should fail")
	}
}

func TestFrameEventCopiesData(t *testing.T) {
	f := frame.NewExtended(0x18FF0001, []byte{1, 2, 3})
	ev := NewFrameEvent(f)

	f.Data[0] = 9
	if ev.Data[0] != 1 {
		t.Error("frame event shares the frame's buffer")
	}
	if !ev.Extended || ev.ID != 0x18FF0001 {
		t.Errorf("got %+v", ev)
	}

	ts := time.Unix(10, 0)
	back := ev.ToFrame(ts)
	if back.ID != ev.ID || !back.Extended || !back.Timestamp.Equal(ts) {
		t.Errorf("ToFrame = %+v", back)
	}

	if NewFrameEvent(nil) != nil {
		t.Error("NewFrameEvent(nil) should be nil")
	}
}
