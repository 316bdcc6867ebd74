// Package match implements title normalization, fuzzy similarity scoring,
// and best-candidate resolution for search results coming back from the
// external movie sources.
package match

import (
	"regexp"
	"strings"
)

var (
	nonAlphaNum = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// numeralMap converts roman numerals and spelled-out numbers to digits so
// that "Part II", "Part Two" and "Part 2" all normalize identically.
var numeralMap = map[string]string{
	"ii": "2", "iii": "3", "iv": "4", "v": "5",
	"vi": "6", "vii": "7", "viii": "8", "ix": "9", "x": "10",
	"zero": "0", "one": "1", "two": "2", "three": "3", "four": "4",
	"five": "5", "six": "6", "seven": "7", "eight": "8", "nine": "9",
	"ten": "10",
}

// Normalize canonicalizes a raw title or category label for comparison.
// The result is never shown to users. Empty input normalizes to "".
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.ToLower(raw)
	s = nonAlphaNum.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	tokens := strings.Split(s, " ")
	out := tokens[:0]
	for _, tok := range tokens {
		if tok == "part" {
			// Subtitle sequels often differ only by "Part".
			continue
		}
		if digit, ok := numeralMap[tok]; ok {
			tok = digit
		}
		out = append(out, tok)
	}
	return strings.Join(out, " ")
}

// Variants generates normalized spelling variants of a title for sources
// whose search endpoint is sensitive to exact phrasing.
func Variants(title string) []string {
	base := Normalize(title)
	seen := make(map[string]struct{})
	var variants []string
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v == "" {
			return
		}
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		variants = append(variants, v)
	}

	add(title)
	add(base)
	add(strings.Replace(base, " 2", " ii", 1))
	add(strings.Replace(base, " ii", " 2", 1))
	add(strings.Replace(base, " 3", " iii", 1))
	add(strings.Replace(base, " iii", " 3", 1))
	return variants
}
