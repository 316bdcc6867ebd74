// Package source defines the adapter interfaces and shared types for the
// external movie sources, plus the error taxonomy separating transient
// failures from no-match conditions.
package source

import (
	"context"
	"fmt"
	"time"
)

// Name uniquely identifies an external movie source.
type Name string

// Known source names.
const (
	NameScreenboard Name = "screenboard" // review aggregator, 0-10 scale
	NameTomatometer Name = "tomatometer" // critic/audience percentage site
	NameAcademy     Name = "academy"     // awards database
)

// AllNames returns all known source names in display order.
func AllNames() []Name {
	return []Name{NameScreenboard, NameTomatometer, NameAcademy}
}

// DisplayName returns a human-readable name for the source.
func (n Name) DisplayName() string {
	switch n {
	case NameScreenboard:
		return "Screenboard"
	case NameTomatometer:
		return "Tomatometer"
	case NameAcademy:
		return "Academy Awards Database"
	default:
		return string(n)
	}
}

// Capability describes a source's access model and documented rate limits.
type Capability struct {
	RequestsPerSecond float64 `json:"requests_per_second"`
	RequiresAuth      bool    `json:"requires_auth"`
}

// Capabilities returns the known capability metadata for each source.
func Capabilities() map[Name]Capability {
	return map[Name]Capability{
		NameScreenboard: {RequestsPerSecond: 5, RequiresAuth: true},
		NameTomatometer: {RequestsPerSecond: 1},
		NameAcademy:     {RequestsPerSecond: 1},
	}
}

// RatingInfo is what the primary rating source returns for one title.
type RatingInfo struct {
	Title  string   `json:"title"`
	Rating float64  `json:"rating"` // 0-10 scale
	Image  string   `json:"image,omitempty"`
	URL    string   `json:"url,omitempty"`
	Genres []string `json:"genres,omitempty"`
}

// ScorecardInfo is what the critic/audience score source returns.
type ScorecardInfo struct {
	Title         string   `json:"title"`
	CriticScore   float64  `json:"critic_score"`   // percentage, 0-100
	AudienceScore float64  `json:"audience_score"` // percentage, 0-100
	Genres        []string `json:"genres,omitempty"`
	ReleaseDate   string   `json:"release_date,omitempty"`
	Image         string   `json:"image,omitempty"`
	URL           string   `json:"url,omitempty"`
}

// AwardNomination is a single nomination or win reported by the awards source.
type AwardNomination struct {
	Category  string `json:"category"`            // raw ceremony phrasing
	Statement string `json:"statement,omitempty"` // nominee text, display only
	IsWin     bool   `json:"is_win"`
}

// RatingSource resolves a title against the primary rating source.
type RatingSource interface {
	Name() Name
	Lookup(ctx context.Context, title string) (*RatingInfo, error)
}

// ScorecardSource resolves a title against the critic/audience score source.
type ScorecardSource interface {
	Name() Name
	Lookup(ctx context.Context, title string) (*ScorecardInfo, error)
}

// AwardsSource resolves a title against the awards database.
type AwardsSource interface {
	Name() Name
	Lookup(ctx context.Context, title string) ([]AwardNomination, error)
}

// ErrSourceUnavailable indicates a transient failure (rate-limited, timeout,
// server error). The retry engine treats it as retryable; exhaustion makes
// the source unavailable for the lookup, never a hard failure.
type ErrSourceUnavailable struct {
	Source     Name
	Cause      error
	RetryAfter time.Duration
}

func (e *ErrSourceUnavailable) Error() string {
	return fmt.Sprintf("source %s unavailable: %v", e.Source, e.Cause)
}

func (e *ErrSourceUnavailable) Unwrap() error { return e.Cause }

// ErrNoMatch indicates the source has no data for the requested title.
// It is a result, not a failure, and is never retried.
type ErrNoMatch struct {
	Source Name
	Title  string
}

func (e *ErrNoMatch) Error() string {
	return fmt.Sprintf("source %s: no match for %q", e.Source, e.Title)
}
