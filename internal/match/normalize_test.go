package match

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase and punctuation", "The Godfather!", "the godfather"},
		{"collapse whitespace", "  Lord of the Rings:  Return! ", "lord of the rings return"},
		{"roman numeral", "The Godfather Part II", "the godfather 2"},
		{"arabic stays", "The Godfather Part 2", "the godfather 2"},
		{"spelled-out number", "Part Two", "2"},
		{"part removed mid-title", "Back Part III Home", "back 3 home"},
		{"numerals only as whole words", "vii", "7"},
		{"embedded roman untouched", "vivid", "vivid"},
		{"empty input", "", ""},
		{"punctuation only", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestVariants(t *testing.T) {
	variants := Variants("The Godfather Part II")

	want := map[string]bool{
		"The Godfather Part II": false,
		"the godfather 2":       false,
		"the godfather ii":      false,
	}
	for _, v := range variants {
		if _, ok := want[v]; ok {
			want[v] = true
		}
	}
	for v, found := range want {
		if !found {
			t.Errorf("expected variant %q in %v", v, variants)
		}
	}

	// No duplicates
	seen := make(map[string]bool)
	for _, v := range variants {
		if seen[v] {
			t.Errorf("duplicate variant %q", v)
		}
		seen[v] = true
	}
}
