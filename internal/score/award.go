package score

import (
	"github.com/pellman/matinee/internal/movie"
	"github.com/pellman/matinee/internal/prefs"
)

// nominationWeight discounts a nomination relative to a win.
const nominationWeight = 0.7

// AwardScore rates the movie's award record against the user's per-category
// preferences, returning a value in [0, weight].
//
// Entries accumulate per normalized category, a win counting fully and a
// nomination at 0.7, so a film dominant in a category the user cares about
// is rewarded. The accumulated total is normalized against the summed base
// preferences of the categories involved and clamped at 100%: repeat wins
// in one category cannot run the score past the cap.
func AwardScore(awards []movie.AwardEntry, userPrefs prefs.PreferenceMap, weight float64) float64 {
	if len(awards) == 0 {
		return 0
	}

	contributions := make(map[string]float64)
	for _, a := range awards {
		category := a.NormalizedCategory
		if category == "" {
			category = movie.NormalizeCategory(a.OriginalCategory)
		}
		pref := float64(userPrefs.Get(category))
		w := 1.0
		if !a.IsWin {
			w = nominationWeight
		}
		contributions[category] += pref * w
	}

	var rawScore, totalPref float64
	for category, contribution := range contributions {
		rawScore += contribution
		totalPref += float64(userPrefs.Get(category))
	}
	if totalPref == 0 {
		return 0
	}

	percent := rawScore / totalPref * 100
	if percent > 100 {
		percent = 100
	}
	return percent / 100 * weight
}
