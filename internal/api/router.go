// Package api is the HTTP surface over the lookup and decision pipeline.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/pellman/matinee/internal/api/middleware"
	"github.com/pellman/matinee/internal/event"
	"github.com/pellman/matinee/internal/movie"
	"github.com/pellman/matinee/internal/prefs"
)

// RecordBuilder assembles movie records; satisfied by *movie.Builder.
type RecordBuilder interface {
	Build(ctx context.Context, title string) (*movie.Record, error)
}

// PreferenceStore persists user preferences; satisfied by *prefs.Service.
type PreferenceStore interface {
	Get(ctx context.Context, userID string) (*prefs.UserPreferences, error)
	Put(ctx context.Context, p *prefs.UserPreferences) error
	Taxonomy(ctx context.Context) (*prefs.Taxonomy, error)
}

// RouterDeps bundles all dependencies needed by the HTTP router.
type RouterDeps struct {
	Builder   RecordBuilder
	Prefs     PreferenceStore
	Threshold func() float64
	RateLimit *middleware.LookupRateLimiter
	Bus       *event.Bus
	Logger    *slog.Logger
	BasePath  string
}

// Router sets up all HTTP routes for the application.
type Router struct {
	builder   RecordBuilder
	prefs     PreferenceStore
	threshold func() float64
	rateLimit *middleware.LookupRateLimiter
	bus       *event.Bus
	logger    *slog.Logger
	basePath  string
}

// NewRouter creates a new Router with all routes configured.
func NewRouter(deps RouterDeps) *Router {
	return &Router{
		builder:   deps.Builder,
		prefs:     deps.Prefs,
		threshold: deps.Threshold,
		rateLimit: deps.RateLimit,
		bus:       deps.Bus,
		logger:    deps.Logger,
		basePath:  deps.BasePath,
	}
}

// Handler returns the fully configured HTTP handler with middleware applied.
func (r *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	bp := r.basePath

	mux.HandleFunc("GET "+bp+"/api/v1/health", r.handleHealth)
	mux.HandleFunc("GET "+bp+"/api/v1/sources", r.handleListSources)
	mux.HandleFunc("GET "+bp+"/api/v1/taxonomy", r.handleTaxonomy)
	mux.HandleFunc("GET "+bp+"/api/v1/users/{id}/preferences", r.handleGetPreferences)
	mux.HandleFunc("PUT "+bp+"/api/v1/users/{id}/preferences", r.handlePutPreferences)

	// The lookup and decision routes fan out to external sources and get
	// their own per-client rate limit.
	mux.Handle("GET "+bp+"/api/v1/movies/lookup", r.limited(r.handleLookup))
	mux.Handle("POST "+bp+"/api/v1/movies/decision", r.limited(r.handleDecision))

	var handler http.Handler = mux
	handler = middleware.Logging(r.logger)(handler)
	handler = middleware.RequestID(handler)
	return handler
}

func (r *Router) limited(h http.HandlerFunc) http.Handler {
	if r.rateLimit == nil {
		return h
	}
	return r.rateLimit.Middleware(h)
}
