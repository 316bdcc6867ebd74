package match

import (
	"strings"

	"github.com/hbollon/go-edlib"
)

// stopwords are dropped before token comparison; they carry no signal for
// title matching.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "of": {},
}

// Blend weights for the fallback score. Token-set overlap dominates, the
// edit-distance ratio tolerates typos, and an exact in-order token match
// (after stopword removal) earns a fixed bonus.
const (
	jaccardWeight     = 0.7
	levenshteinWeight = 0.1
	orderBonus        = 0.2
)

// Similarity computes a match confidence in [0,1] between two titles.
// Exact and near-exact paths short-circuit to 1; otherwise a blended
// token/edit-distance score is returned. Two titles that reduce to nothing
// but stopwords score 0, never 1.
func Similarity(a, b string) float64 {
	na := Normalize(a)
	nb := Normalize(b)

	if na == nb && na != "" {
		return 1
	}

	// Sequel shortcut: matching standalone trailing numbers after
	// normalization already converted roman to arabic.
	if ta := trailingNumber(na); ta != "" && ta == trailingNumber(nb) {
		return 1
	}

	tokensA := dropStopwords(strings.Fields(na))
	tokensB := dropStopwords(strings.Fields(nb))

	if len(tokensA) > 0 && equalSequences(tokensA, tokensB) {
		return 1
	}
	if len(tokensA) == 0 && len(tokensB) == 0 {
		return 0
	}

	score := jaccardWeight * jaccard(tokensA, tokensB)
	score += levenshteinWeight * (1 - normalizedLevenshtein(na, nb))
	if equalSequences(tokensA, tokensB) {
		score += orderBonus
	}

	// Typo shortcut: a couple of character edits between otherwise long
	// titles is a near-match even when token sets barely overlap
	// ("Incpetion" vs "Inception"). Token overlap alone would score it
	// close to zero.
	if dist := edlib.LevenshteinDistance(na, nb); dist <= 2 && max(len(na), len(nb)) >= 5 {
		if ratio := 1 - normalizedLevenshtein(na, nb); ratio > score {
			score = ratio
		}
	}

	return clamp01(score)
}

// trailingNumber returns the last token if it is purely numeric.
func trailingNumber(s string) string {
	idx := strings.LastIndexByte(s, ' ')
	last := s[idx+1:]
	if last == "" {
		return ""
	}
	for _, r := range last {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return last
}

func dropStopwords(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := stopwords[tok]; ok {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func equalSequences(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// jaccard computes set overlap over the two token lists.
func jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, tok := range a {
		setA[tok] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, tok := range b {
		setB[tok] = struct{}{}
	}

	union := len(setB)
	inter := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 1
	}
	return float64(inter) / float64(union)
}

// normalizedLevenshtein returns edit distance scaled by the longer string.
func normalizedLevenshtein(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 0
	}
	return float64(edlib.LevenshteinDistance(a, b)) / float64(longest)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
