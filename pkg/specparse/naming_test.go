package specparse

import "testing"

func TestGoName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"engine_status", "EngineStatus"},
		{"engine-status", "EngineStatus"},
		{"RPM", "RPM"},
		{"wheelSpeed", "WheelSpeed"},
		{"door.front left", "DoorFrontLeft"},
		{"2nd_gear", "N2ndGear"},
		{"a__b", "AB"},
	}
	for _, tt := range tests {
		if got := GoName(tt.input); got != tt.want {
			t.Errorf("GoName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
