// Package score turns a reconciled movie record plus a user's preferences
// into section scores and the final watch decision.
package score

import "github.com/pellman/matinee/internal/prefs"

const (
	strongSynergy = 1.1
	mildSynergy   = 1.03
	dislikeFactor = 0.85
	dislikeCutoff = 3
)

// GenreScore rates how well the movie's genres fit the user's taste,
// returning a value in [0, maxScale].
//
// Genres the user never rated are excluded from the match set rather than
// defaulted, but a movie with no rated genre at all scores the neutral
// midpoint instead of 0: unrated is indifference, not dislike. Multi-genre
// matches earn a synergy boost, and any actively disliked genre drags the
// whole section down regardless of the rest.
func GenreScore(movieGenres []string, userPrefs prefs.PreferenceMap, maxScale float64) float64 {
	if len(movieGenres) == 0 {
		return 0
	}

	var matched []int
	for _, g := range movieGenres {
		if userPrefs.Has(g) {
			matched = append(matched, userPrefs.Get(g))
		}
	}
	if len(matched) == 0 {
		return float64(prefs.Neutral) / 10 * maxScale
	}

	sum := 0
	disliked := false
	for _, v := range matched {
		sum += v
		if v <= dislikeCutoff {
			disliked = true
		}
	}
	base := float64(sum) / float64(len(matched))

	boosted := base
	switch {
	case len(matched) >= 2 && base > 7:
		boosted *= strongSynergy
	case len(matched) >= 2:
		boosted *= mildSynergy
	}
	if disliked {
		boosted *= dislikeFactor
	}

	// Boosts never push past the top of the preference scale.
	if boosted > 10 {
		boosted = 10
	}
	return boosted / 10 * maxScale
}
