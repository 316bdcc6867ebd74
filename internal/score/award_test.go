package score

import (
	"testing"

	"github.com/pellman/matinee/internal/movie"
	"github.com/pellman/matinee/internal/prefs"
)

func win(category string) movie.AwardEntry {
	return movie.AwardEntry{OriginalCategory: category, NormalizedCategory: movie.NormalizeCategory(category), IsWin: true}
}

func nomination(category string) movie.AwardEntry {
	return movie.AwardEntry{OriginalCategory: category, NormalizedCategory: movie.NormalizeCategory(category)}
}

func TestAwardScore(t *testing.T) {
	tests := []struct {
		name     string
		awards   []movie.AwardEntry
		userPref prefs.PreferenceMap
		weight   float64
		want     float64
	}{
		{
			name:     "empty awards",
			awards:   nil,
			userPref: prefs.PreferenceMap{},
			weight:   30,
			want:     0,
		},
		{
			name: "repeat wins cap at full weight",
			awards: []movie.AwardEntry{
				{NormalizedCategory: "Best Actor", IsWin: true},
				{NormalizedCategory: "Best Actor", IsWin: true},
			},
			userPref: prefs.PreferenceMap{"Best Actor": 9},
			weight:   30,
			want:     30, // raw 18 over base 9 exceeds 100%, clamped
		},
		{
			name:     "single win scores full percent",
			awards:   []movie.AwardEntry{win("BEST PICTURE")},
			userPref: prefs.PreferenceMap{"Best Picture": 8},
			weight:   25,
			want:     25, // 8*1.0 / 8 = 100%
		},
		{
			name:     "nomination discounted",
			awards:   []movie.AwardEntry{nomination("BEST PICTURE")},
			userPref: prefs.PreferenceMap{"Best Picture": 8},
			weight:   25,
			want:     17.5, // 0.7 of the weight
		},
		{
			name: "mixed categories normalize against combined base",
			awards: []movie.AwardEntry{
				win("BEST PICTURE"),
				nomination("DIRECTING"),
			},
			userPref: prefs.PreferenceMap{"Best Picture": 10, "Best Director": 10},
			weight:   20,
			want:     17, // (10 + 7) / 20 = 85%
		},
		{
			name:     "unstored category prefs read neutral",
			awards:   []movie.AwardEntry{win("BEST PICTURE")},
			userPref: prefs.PreferenceMap{},
			weight:   10,
			want:     10, // 5/5 = 100%
		},
		{
			name: "raw entries normalize on the fly",
			awards: []movie.AwardEntry{
				{OriginalCategory: "SOUND MIXING", IsWin: true},
				{OriginalCategory: "SOUND EDITING", IsWin: true},
			},
			userPref: prefs.PreferenceMap{"Best Sound": 6},
			weight:   10,
			want:     10, // both fold into Best Sound: raw 12 over base 6, clamped
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AwardScore(tt.awards, tt.userPref, tt.weight)
			if !almostEqual(got, tt.want) {
				t.Errorf("AwardScore = %v, want %v", got, tt.want)
			}
		})
	}
}
