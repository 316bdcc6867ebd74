// Package movie holds the reconciled movie record and the builder that
// assembles it from the external sources.
package movie

import "github.com/pellman/matinee/internal/source"

// Record is the reconciled view of one title across all sources. Either
// rating source may be nil when it failed or found no match; Genres is the
// deduplicated canonical union of the per-source genre lists.
type Record struct {
	Title           string                `json:"title"`
	PrimarySource   *source.RatingInfo    `json:"primary_source,omitempty"`
	SecondarySource *source.ScorecardInfo `json:"secondary_source,omitempty"`
	Awards          []AwardEntry          `json:"awards"`
	Genres          []string              `json:"genres"`
}

// AwardEntry is one nomination or win attributed to the record.
// NormalizedCategory is never empty: unmapped categories pass through
// unchanged.
type AwardEntry struct {
	OriginalCategory   string `json:"original_category"`
	NormalizedCategory string `json:"normalized_category"`
	FullCategory       string `json:"full_category"`
	IsWin              bool   `json:"is_win"`
}

// Empty reports whether no source contributed anything to the record.
func (r *Record) Empty() bool {
	return r.PrimarySource == nil && r.SecondarySource == nil && len(r.Awards) == 0
}

// newAwardEntry builds an AwardEntry from a raw nomination.
func newAwardEntry(n source.AwardNomination) AwardEntry {
	full := n.Category
	if n.Statement != "" {
		full += " - " + n.Statement
	}
	return AwardEntry{
		OriginalCategory:   n.Category,
		NormalizedCategory: NormalizeCategory(n.Category),
		FullCategory:       full,
		IsWin:              n.IsWin,
	}
}
