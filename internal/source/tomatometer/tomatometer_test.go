package tomatometer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pellman/matinee/internal/retry"
	"github.com/pellman/matinee/internal/source"
)

const searchBody = `{
	"items": [
		{"title": "Jaws", "url": "/m/jaws", "year": "1975"},
		{"title": "Jaws 2", "url": "/m/jaws_2", "year": "1978"},
		{"title": "Jaws: The Revenge", "url": "/m/jaws_the_revenge", "year": "1987"}
	]
}`

const scoreboardPage = `<!DOCTYPE html>
<html><body>
<score-board title="Jaws" tomatometerscore="97" audiencescore="90"></score-board>
<script type="application/ld+json">
{"@type":"Movie","name":"Jaws","genre":["Horror","Mystery & Thriller"],
 "dateCreated":"1975-06-20","image":"https://img.example.com/jaws.jpg",
 "aggregateRating":{"ratingValue":97}}
</script>
</body></html>`

const ldOnlyPage = `<!DOCTYPE html>
<html><body>
<script type="application/ld+json">
{"@type":"Movie","name":"Jaws 2","genre":"Horror",
 "dateCreated":"1978-06-16","image":"https://img.example.com/jaws2.jpg",
 "aggregateRating":{"ratingValue":60},"audience":{"ratingValue":43}}
</script>
</body></html>`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			w.Header().Set("Content-Type", "application/json")
			if r.URL.Query().Get("query") == "nothing here" {
				w.Write([]byte(`{"items": []}`)) //nolint:errcheck
				return
			}
			w.Write([]byte(searchBody)) //nolint:errcheck
		case "/m/jaws":
			w.Write([]byte(scoreboardPage)) //nolint:errcheck
		case "/m/jaws_2":
			w.Write([]byte(ldOnlyPage)) //nolint:errcheck
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func newTestAdapter(t *testing.T, baseURL string) *Adapter {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := retry.Config{Attempts: 2, InitialDelay: time.Millisecond, Factor: 2}
	return New(source.NewRateLimiterMap(), logger, baseURL, cfg)
}

func TestLookupScoreboardPage(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	a := newTestAdapter(t, srv.URL)

	info, err := a.Lookup(context.Background(), "Jaws")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Title != "Jaws" {
		t.Errorf("expected Jaws, got %q", info.Title)
	}
	if info.CriticScore != 97 || info.AudienceScore != 90 {
		t.Errorf("unexpected scores: critic=%v audience=%v", info.CriticScore, info.AudienceScore)
	}
	if len(info.Genres) != 2 || info.Genres[1] != "Mystery & Thriller" {
		t.Errorf("unexpected genres: %v", info.Genres)
	}
	if info.ReleaseDate != "1975-06-20" {
		t.Errorf("unexpected release date %q", info.ReleaseDate)
	}
}

func TestLookupJSONLDFallback(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	a := newTestAdapter(t, srv.URL)

	info, err := a.Lookup(context.Background(), "Jaws 2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Title != "Jaws 2" {
		t.Errorf("expected Jaws 2, got %q", info.Title)
	}
	if info.CriticScore != 60 || info.AudienceScore != 43 {
		t.Errorf("unexpected scores: critic=%v audience=%v", info.CriticScore, info.AudienceScore)
	}
	if len(info.Genres) != 1 || info.Genres[0] != "Horror" {
		t.Errorf("bare-string genre should become a single-element list, got %v", info.Genres)
	}
}

func TestLookupNoMatch(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	a := newTestAdapter(t, srv.URL)

	_, err := a.Lookup(context.Background(), "nothing here")
	var noMatch *source.ErrNoMatch
	if !errors.As(err, &noMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestLookupUnparseablePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"items":[{"title":"Jaws","url":"/m/jaws"}]}`)) //nolint:errcheck
			return
		}
		w.Write([]byte(`<html><body><p>maintenance</p></body></html>`)) //nolint:errcheck
	}))
	defer srv.Close()
	a := newTestAdapter(t, srv.URL)

	_, err := a.Lookup(context.Background(), "Jaws")
	if err == nil {
		t.Fatal("expected error for page without movie markup")
	}
}

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"93", 93},
		{"93%", 93},
		{" 70% ", 70},
		{"N/A", 0},
		{"", 0},
		{"150", 0},
	}
	for _, tt := range tests {
		if got := parsePercent(tt.in); got != tt.want {
			t.Errorf("parsePercent(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
