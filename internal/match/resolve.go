package match

import "strings"

// yearBonus is added to a candidate's score when its release-year hint
// appears verbatim in the target title.
const yearBonus = 0.1

// Candidate is one raw search hit from an external source.
type Candidate struct {
	Title      string
	URL        string
	YearHint   string
	Similarity float64
}

// ResolveCandidate selects the best match for target among candidates.
// It returns nil when the list is empty, which callers must treat as
// "source has no data", not an error. Ties keep the first-seen candidate.
func ResolveCandidate(target string, candidates []Candidate) *Candidate {
	if len(candidates) == 0 {
		return nil
	}

	var best *Candidate
	bestScore := -1.0
	for i := range candidates {
		c := &candidates[i]
		c.Similarity = Similarity(target, c.Title)

		score := c.Similarity
		if c.YearHint != "" && strings.Contains(target, c.YearHint) {
			score += yearBonus
		}
		if score > bestScore {
			best = c
			bestScore = score
		}
	}
	return best
}
