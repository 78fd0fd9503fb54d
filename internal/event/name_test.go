package event

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapses and trims", "  Hack   the North ", "hack the north"},
		{"tabs and newlines", "Hack\tthe\nNorth", "hack the north"},
		{"already normalized", "hack the north", "hack the north"},
		{"empty", "", ""},
		{"only whitespace", " \t ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if again := NormalizeName(got); again != got {
				t.Errorf("NormalizeName is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNameSet(t *testing.T) {
	set := NewNameSet("Hack the North", "  ", "DeltaHacks XII")

	if len(set) != 2 {
		t.Fatalf("expected 2 names, got %d", len(set))
	}

	if !set.Contains("hack   THE north") {
		t.Error("expected set to contain normalized variant of Hack the North")
	}

	if set.Contains("Hack The North 2") {
		t.Error("set should not contain Hack The North 2")
	}

	if set.Add("DELTAHACKS XII") {
		t.Error("Add() should report false for an existing name")
	}

	if !set.Add("nwHacks") {
		t.Error("Add() should report true for a new name")
	}

	var nilSet NameSet
	if nilSet.Contains("anything") {
		t.Error("nil set should contain nothing")
	}
}
