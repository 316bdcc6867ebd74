package prefs

import (
	"context"
	"database/sql"
	"slices"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/pellman/matinee/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test db: %v", err)
	}
	return db
}

func TestGetDefaultsForUnknownUser(t *testing.T) {
	svc := NewService(setupTestDB(t))

	p, err := svc.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Rating.Primary != Neutral || p.Rating.Critic != Neutral || p.Rating.Audience != Neutral {
		t.Errorf("rating prefs should default to neutral, got %+v", p.Rating)
	}
	if p.AwardImportance != Neutral {
		t.Errorf("award importance should default to %d, got %d", Neutral, p.AwardImportance)
	}
	if len(p.Genres) != 0 || len(p.Awards) != 0 {
		t.Errorf("expected empty maps, got genres=%v awards=%v", p.Genres, p.Awards)
	}
	if p.Genres.Get("Horror") != Neutral {
		t.Errorf("missing genre should read neutral, got %d", p.Genres.Get("Horror"))
	}
}

func TestPutAndGetRoundTrip(t *testing.T) {
	svc := NewService(setupTestDB(t))
	ctx := context.Background()

	in := &UserPreferences{
		UserID:          "u1",
		Rating:          RatingPrefs{Primary: 8, Critic: 6, Audience: 4},
		AwardImportance: 9,
		Genres:          PreferenceMap{"Horror": 9, "Romance": 2},
		Awards:          PreferenceMap{"Best Picture": 10},
	}
	if err := svc.Put(ctx, in); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Rating != in.Rating {
		t.Errorf("rating = %+v, want %+v", got.Rating, in.Rating)
	}
	if got.AwardImportance != 9 {
		t.Errorf("award importance = %d, want 9", got.AwardImportance)
	}
	if got.Genres.Get("Horror") != 9 || got.Genres.Get("Romance") != 2 {
		t.Errorf("unexpected genres %v", got.Genres)
	}
	if got.Awards.Get("Best Picture") != 10 {
		t.Errorf("unexpected awards %v", got.Awards)
	}
}

func TestPutReplacesStoredMaps(t *testing.T) {
	svc := NewService(setupTestDB(t))
	ctx := context.Background()

	first := DefaultPreferences("u1")
	first.Genres = PreferenceMap{"Horror": 9, "Western": 7}
	if err := svc.Put(ctx, first); err != nil {
		t.Fatal(err)
	}

	second := DefaultPreferences("u1")
	second.Genres = PreferenceMap{"Comedy": 8}
	if err := svc.Put(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Genres.Has("Horror") || got.Genres.Has("Western") {
		t.Errorf("old genre rows should be gone, got %v", got.Genres)
	}
	if got.Genres.Get("Comedy") != 8 {
		t.Errorf("expected Comedy=8, got %v", got.Genres)
	}
}

func TestTaxonomySeeded(t *testing.T) {
	svc := NewService(setupTestDB(t))

	tax, err := svc.Taxonomy(context.Background())
	if err != nil {
		t.Fatalf("Taxonomy: %v", err)
	}
	if len(tax.Genres) == 0 || len(tax.AwardCategories) == 0 {
		t.Fatalf("expected seeded taxonomy, got %+v", tax)
	}
	if !slices.Contains(tax.Genres, "Mystery & Thriller") {
		t.Errorf("missing canonical genre, got %v", tax.Genres)
	}
	if !slices.Contains(tax.AwardCategories, "Best Picture") {
		t.Errorf("missing canonical category, got %v", tax.AwardCategories)
	}
	if !slices.IsSorted(tax.Genres) {
		t.Errorf("genres not sorted: %v", tax.Genres)
	}
}

func TestPutValidation(t *testing.T) {
	svc := NewService(setupTestDB(t))
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*UserPreferences)
	}{
		{"missing user id", func(p *UserPreferences) { p.UserID = "" }},
		{"rating too high", func(p *UserPreferences) { p.Rating.Critic = 11 }},
		{"rating zero", func(p *UserPreferences) { p.Rating.Primary = 0 }},
		{"genre out of range", func(p *UserPreferences) { p.Genres = PreferenceMap{"Drama": 12} }},
		{"award out of range", func(p *UserPreferences) { p.Awards = PreferenceMap{"Best Picture": -1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPreferences("u1")
			tt.mutate(p)
			if err := svc.Put(ctx, p); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
