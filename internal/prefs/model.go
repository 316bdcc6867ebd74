// Package prefs stores per-user taste preferences and serves them to the
// decision pipeline. Every preference is an integer on the 1-10 scale and
// anything unset reads as the neutral 5.
package prefs

// Neutral is the preference value implied by a missing entry.
const Neutral = 5

// PreferenceMap maps a canonical name (genre or award category) to a
// preference in [1,10].
type PreferenceMap map[string]int

// Get returns the stored preference or the neutral default. It never
// returns 0 for a missing key.
func (m PreferenceMap) Get(key string) int {
	if v, ok := m[key]; ok {
		return v
	}
	return Neutral
}

// Has reports whether the key was explicitly stored.
func (m PreferenceMap) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// RatingPrefs weight the three rating signals against each other.
type RatingPrefs struct {
	Primary  int `json:"primary_rating"`
	Critic   int `json:"critic_score"`
	Audience int `json:"audience_score"`
}

// UserPreferences is everything the decision aggregator needs for one user.
type UserPreferences struct {
	UserID          string        `json:"user_id"`
	Rating          RatingPrefs   `json:"rating"`
	AwardImportance int           `json:"award_importance"`
	Genres          PreferenceMap `json:"genres"`
	Awards          PreferenceMap `json:"awards"`
}

// Taxonomy lists the canonical names a preference form can offer.
type Taxonomy struct {
	Genres          []string `json:"genres"`
	AwardCategories []string `json:"award_categories"`
}

// DefaultPreferences is the all-neutral profile used when a user has
// stored nothing.
func DefaultPreferences(userID string) *UserPreferences {
	return &UserPreferences{
		UserID:          userID,
		Rating:          RatingPrefs{Primary: Neutral, Critic: Neutral, Audience: Neutral},
		AwardImportance: Neutral,
		Genres:          PreferenceMap{},
		Awards:          PreferenceMap{},
	}
}

func validPreference(v int) bool {
	return v >= 1 && v <= 10
}
