package jsonutil

import "testing"

func TestFlexibleString(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, ""},
		{"string", "high", "high"},
		{"integer number", float64(3), "3"},
		{"fractional number", 2.5, "2.5"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"slice falls back to JSON", []any{"a", "b"}, `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlexibleString(tt.input); got != tt.want {
				t.Errorf("FlexibleString(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
