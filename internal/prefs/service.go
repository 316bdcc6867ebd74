package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrInvalid marks a preference payload that failed validation, as opposed
// to a store failure.
var ErrInvalid = errors.New("invalid preferences")

// Service reads and writes user preferences in SQLite.
type Service struct {
	db *sql.DB
}

// NewService creates a preference service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Get loads a user's full preference profile. A user with nothing stored
// gets the all-neutral default; a store failure is surfaced to the caller
// because the decision pipeline has no meaningful basis without it.
func (s *Service) Get(ctx context.Context, userID string) (*UserPreferences, error) {
	p := DefaultPreferences(userID)

	err := s.db.QueryRowContext(ctx,
		"SELECT primary_rating, critic_score, audience_score, award_importance FROM rating_preferences WHERE user_id = ?",
		userID,
	).Scan(&p.Rating.Primary, &p.Rating.Critic, &p.Rating.Audience, &p.AwardImportance)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("reading rating preferences for %s: %w", userID, err)
	}

	if err := s.loadMap(ctx, "SELECT genre, preference FROM genre_preferences WHERE user_id = ?", userID, p.Genres); err != nil {
		return nil, fmt.Errorf("reading genre preferences for %s: %w", userID, err)
	}
	if err := s.loadMap(ctx, "SELECT category, preference FROM award_preferences WHERE user_id = ?", userID, p.Awards); err != nil {
		return nil, fmt.Errorf("reading award preferences for %s: %w", userID, err)
	}
	return p, nil
}

// Taxonomy lists the known genre and award-category names, for clients
// building a preference form.
func (s *Service) Taxonomy(ctx context.Context) (*Taxonomy, error) {
	genres, err := s.loadNames(ctx, "SELECT name FROM genres ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("reading genres: %w", err)
	}
	categories, err := s.loadNames(ctx, "SELECT name FROM award_categories ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("reading award categories: %w", err)
	}
	return &Taxonomy{Genres: genres, AwardCategories: categories}, nil
}

func (s *Service) loadNames(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Service) loadMap(ctx context.Context, query, userID string, dst PreferenceMap) error {
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return err
	}
	defer rows.Close() //nolint:errcheck

	for rows.Next() {
		var name string
		var pref int
		if err := rows.Scan(&name, &pref); err != nil {
			return err
		}
		dst[name] = pref
	}
	return rows.Err()
}

// Put stores the full preference profile in one transaction, replacing any
// previous genre and award rows. Out-of-range values are rejected.
func (s *Service) Put(ctx context.Context, p *UserPreferences) error {
	if err := validate(p); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction for %s: %w", p.UserID, err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback is a no-op after commit

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO rating_preferences (user_id, primary_rating, critic_score, audience_score, award_importance)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
		   primary_rating = excluded.primary_rating,
		   critic_score = excluded.critic_score,
		   audience_score = excluded.audience_score,
		   award_importance = excluded.award_importance`,
		p.UserID, p.Rating.Primary, p.Rating.Critic, p.Rating.Audience, p.AwardImportance,
	); err != nil {
		return fmt.Errorf("storing rating preferences for %s: %w", p.UserID, err)
	}

	if err := s.replaceMap(ctx, tx, "genre_preferences", "genre", p.UserID, p.Genres); err != nil {
		return fmt.Errorf("storing genre preferences for %s: %w", p.UserID, err)
	}
	if err := s.replaceMap(ctx, tx, "award_preferences", "category", p.UserID, p.Awards); err != nil {
		return fmt.Errorf("storing award preferences for %s: %w", p.UserID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing preferences for %s: %w", p.UserID, err)
	}
	return nil
}

func (s *Service) replaceMap(ctx context.Context, tx *sql.Tx, table, col, userID string, m PreferenceMap) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", userID); err != nil {
		return err
	}
	for name, pref := range m {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+table+" (user_id, "+col+", preference) VALUES (?, ?, ?)",
			userID, name, pref,
		); err != nil {
			return err
		}
	}
	return nil
}

func validate(p *UserPreferences) error {
	if p.UserID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalid)
	}
	for name, v := range map[string]int{
		"primary_rating":   p.Rating.Primary,
		"critic_score":     p.Rating.Critic,
		"audience_score":   p.Rating.Audience,
		"award_importance": p.AwardImportance,
	} {
		if !validPreference(v) {
			return fmt.Errorf("%w: %s must be between 1 and 10, got %d", ErrInvalid, name, v)
		}
	}
	for genre, v := range p.Genres {
		if !validPreference(v) {
			return fmt.Errorf("%w: genre %q preference must be between 1 and 10, got %d", ErrInvalid, genre, v)
		}
	}
	for category, v := range p.Awards {
		if !validPreference(v) {
			return fmt.Errorf("%w: award %q preference must be between 1 and 10, got %d", ErrInvalid, category, v)
		}
	}
	return nil
}
