package score

import (
	"github.com/pellman/matinee/internal/movie"
	"github.com/pellman/matinee/internal/prefs"
)

// Decision is the final verdict for one (movie, user) pair.
type Decision struct {
	FinalScore  float64   `json:"final_score"`
	ShouldWatch bool      `json:"should_watch"`
	Breakdown   Breakdown `json:"breakdown"`
}

// Breakdown exposes how the final score was assembled.
type Breakdown struct {
	RatingWeight float64 `json:"rating_weight"`
	GenreWeight  float64 `json:"genre_weight"`
	AwardWeight  float64 `json:"award_weight"`
	Rating       float64 `json:"rating_contribution"`
	Genre        float64 `json:"genre_contribution"`
	Award        float64 `json:"award_contribution"`
}

// Compute combines the record's rating, genre, and award signals into one
// bounded score and a watch recommendation.
//
// Stage 1 derives the three section weights from the user's own
// preferences: the average rating-source preference, the average stored
// genre preference, and the award-importance scalar each claim their share
// of the total. Stage 2 scores each section, with the rating section
// additionally blending the individual sources by their own preference.
// Missing signals contribute 0 to their slice; missing preferences read as
// neutral. Compute never fails on missing data.
func Compute(rec *movie.Record, p *prefs.UserPreferences, threshold float64) Decision {
	// Stage 1: section weights.
	avgRatingPref := float64(p.Rating.Primary+p.Rating.Critic+p.Rating.Audience) / 3

	avgGenrePref := float64(prefs.Neutral)
	if len(p.Genres) > 0 {
		sum := 0
		for _, v := range p.Genres {
			sum += v
		}
		avgGenrePref = float64(sum) / float64(len(p.Genres))
	}

	awardImportance := float64(p.AwardImportance)

	totalWeight := avgRatingPref + avgGenrePref + awardImportance
	ratingWeight := avgRatingPref / totalWeight
	genreWeight := avgGenrePref / totalWeight
	awardWeight := awardImportance / totalWeight

	// Stage 2: section scores. Every source score lands on the 0-10 scale
	// before blending; an absent source contributes 0.
	var primaryNorm, criticNorm, audienceNorm float64
	if rec.PrimarySource != nil {
		primaryNorm = rec.PrimarySource.Rating
	}
	if rec.SecondarySource != nil {
		criticNorm = rec.SecondarySource.CriticScore / 10
		audienceNorm = rec.SecondarySource.AudienceScore / 10
	}

	var rawRating float64
	if totalRatingPref := float64(p.Rating.Primary + p.Rating.Critic + p.Rating.Audience); totalRatingPref > 0 {
		rawRating = (primaryNorm*float64(p.Rating.Primary) +
			criticNorm*float64(p.Rating.Critic) +
			audienceNorm*float64(p.Rating.Audience)) / totalRatingPref
	}

	ratingContribution := rawRating * ratingWeight * 10
	genreContribution := GenreScore(rec.Genres, p.Genres, genreWeight*100)
	awardContribution := AwardScore(rec.Awards, p.Awards, awardWeight*100)

	final := ratingContribution + genreContribution + awardContribution
	if final > 100 {
		final = 100
	}

	return Decision{
		FinalScore:  final,
		ShouldWatch: final >= threshold,
		Breakdown: Breakdown{
			RatingWeight: ratingWeight,
			GenreWeight:  genreWeight,
			AwardWeight:  awardWeight,
			Rating:       ratingContribution,
			Genre:        genreContribution,
			Award:        awardContribution,
		},
	}
}
