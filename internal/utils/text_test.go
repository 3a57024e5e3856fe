package utils

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{" Delhi ", "delhi"},
		{"NORTH-EAST", "north-east"},
		{"\tGurgaon\n", "gurgaon"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestEqualNormalized(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{" Delhi ", "delhi", true},
		{"East", "EAST", true},
		{"Delhi", "New Delhi", false},
		{"", "  ", true},
	}

	for _, tt := range tests {
		if got := EqualNormalized(tt.a, tt.b); got != tt.want {
			t.Errorf("EqualNormalized(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestContainsNormalized(t *testing.T) {
	candidates := []string{"East", " West "}

	if !ContainsNormalized(candidates, "east") {
		t.Error("expected east to match East")
	}
	if !ContainsNormalized(candidates, "WEST") {
		t.Error("expected WEST to match West")
	}
	if ContainsNormalized(candidates, "North") {
		t.Error("did not expect North to match")
	}
	if ContainsNormalized(nil, "East") {
		t.Error("did not expect a match against no candidates")
	}
}
