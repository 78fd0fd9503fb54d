package event

import "testing"

func TestExtractProvince(t *testing.T) {
	tests := []struct {
		location string
		expected string
	}{
		{"Toronto, Ontario", "ON"},
		{"Montreal, QC", "QC"},
		{"Boston, MA", ""},
		{"Québec", "QC"},
		{"Quebec", "QC"},
		{"Quebec City, Québec", "QC"},
		{"Vancouver, British Columbia, Canada", "BC"},
		{"Halifax / Nova Scotia", "NS"},
		{"St. John's, Newfoundland and Labrador", "NL"},
		{"Charlottetown, pe", "PE"},
		{"Waterloo,ON", "ON"},
		{"  Yellowknife ,  Northwest Territories  ", "NT"},
		{"Ontario, California", "ON"},
		{"London, UK", ""},
		{"Ontario Tech University", ""},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			result := ExtractProvince(tt.location)
			if result != tt.expected {
				t.Errorf("ExtractProvince(%q) = %q, want %q", tt.location, result, tt.expected)
			}
		})
	}
}

func TestExtractProvince_RightmostWins(t *testing.T) {
	// "ON" appears first but the rightmost matching part decides
	if got := ExtractProvince("ON, Gatineau, QC"); got != "QC" {
		t.Errorf("ExtractProvince() = %q, want QC", got)
	}
}

func TestExtractProvince_Idempotent(t *testing.T) {
	locations := []string{"Toronto, Ontario", "Montréal, Québec", "Calgary / AB", "Boston, MA"}

	for _, loc := range locations {
		first := ExtractProvince(loc)
		second := ExtractProvince(loc)
		if first != second {
			t.Errorf("ExtractProvince(%q) not stable: %q vs %q", loc, first, second)
		}
		if first != "" && ExtractProvince(first) != first {
			t.Errorf("ExtractProvince(%q) = %q, want the code to map to itself", first, ExtractProvince(first))
		}
	}
}

func TestIsCanadianLocation(t *testing.T) {
	tests := []struct {
		location string
		expected bool
	}{
		{"Vancouver, Canada", true},
		{"Seattle, WA", false},
		{"Toronto, ON", true},
		{"Online, CANADA", true},
		{"Montréal, Québec", true},
		{"Toronto", false}, // bare city names are not recognised
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			if got := IsCanadianLocation(tt.location); got != tt.expected {
				t.Errorf("IsCanadianLocation(%q) = %v, want %v", tt.location, got, tt.expected)
			}
		})
	}
}

func TestUnaccent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Québec", "Quebec"},
		{"Montréal", "Montreal"},
		{"Trois-Rivières", "Trois-Rivieres"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Unaccent(tt.input); got != tt.expected {
				t.Errorf("Unaccent(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestProvinceTables(t *testing.T) {
	if len(ProvinceCodes()) != 13 {
		t.Errorf("expected 13 province codes, got %d", len(ProvinceCodes()))
	}
	if len(ProvinceNames()) != 13 {
		t.Errorf("expected 13 province names, got %d", len(ProvinceNames()))
	}

	for _, name := range ProvinceNames() {
		code := ExtractProvince(name)
		if _, ok := provinceCodes[code]; !ok {
			t.Errorf("name %q resolved to %q, not a known code", name, code)
		}
	}
}
