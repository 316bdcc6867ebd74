package movie

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pellman/matinee/internal/event"
	"github.com/pellman/matinee/internal/source"
)

// BuilderOptions tune how records are assembled.
type BuilderOptions struct {
	// SearchTimeout bounds the whole multi-source lookup. Zero means no
	// bound beyond the caller's context.
	SearchTimeout time.Duration
	// AwardsAsync returns the record before awards enrichment finishes;
	// the enriched record lands in the cache and an awards.enriched event
	// is published.
	AwardsAsync bool
}

// Builder assembles Records from the external sources. Per-source failures
// never abort a lookup; they reduce the record to partial data.
type Builder struct {
	rating    source.RatingSource
	scorecard source.ScorecardSource
	awards    source.AwardsSource
	cache     *Cache
	bus       *event.Bus
	logger    *slog.Logger
	opts      BuilderOptions
}

// NewBuilder wires a record builder.
func NewBuilder(rating source.RatingSource, scorecard source.ScorecardSource, awards source.AwardsSource,
	cache *Cache, bus *event.Bus, logger *slog.Logger, opts BuilderOptions) *Builder {
	return &Builder{
		rating:    rating,
		scorecard: scorecard,
		awards:    awards,
		cache:     cache,
		bus:       bus,
		logger:    logger,
		opts:      opts,
	}
}

// Build looks the title up across all sources and merges the results.
// The two rating sources run concurrently; the awards lookup needs a
// resolved canonical title and runs after them. When every source reports
// no match the record comes back empty, which is not an error.
func (b *Builder) Build(ctx context.Context, title string) (*Record, error) {
	title = strings.TrimSpace(title)

	if rec, ok := b.cache.Get(title); ok {
		b.logger.Debug("cache hit", slog.String("title", title))
		return rec, nil
	}

	if b.opts.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.opts.SearchTimeout)
		defer cancel()
	}

	var (
		primary   *source.RatingInfo
		secondary *source.ScorecardInfo
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info, err := b.rating.Lookup(gctx, title)
		if err != nil {
			b.reportSourceFailure(b.rating.Name(), title, err)
			return nil
		}
		primary = info
		return nil
	})
	g.Go(func() error {
		info, err := b.scorecard.Lookup(gctx, title)
		if err != nil {
			b.reportSourceFailure(b.scorecard.Name(), title, err)
			return nil
		}
		secondary = info
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rec := &Record{
		Title:  title,
		Awards: []AwardEntry{},
	}
	if primary != nil {
		rec.PrimarySource = primary
		rec.Title = primary.Title
	} else if secondary != nil {
		rec.Title = secondary.Title
	}
	if secondary != nil {
		rec.SecondarySource = secondary
	}

	var primaryGenres, secondaryGenres []string
	if primary != nil {
		primaryGenres = primary.Genres
	}
	if secondary != nil {
		secondaryGenres = secondary.Genres
	}
	rec.Genres = CanonicalGenres(primaryGenres, secondaryGenres)

	// The awards search runs on the resolved canonical title. With no
	// rating source resolved there is nothing trustworthy to search by.
	if primary != nil || secondary != nil {
		if b.opts.AwardsAsync {
			go b.enrichAwards(context.WithoutCancel(ctx), title, rec.Title)
		} else {
			rec.Awards = b.lookupAwards(ctx, rec.Title)
		}
	}

	b.cache.Set(title, rec)
	b.bus.Publish(event.Event{
		Type: event.LookupCompleted,
		Data: map[string]any{"title": rec.Title, "partial": primary == nil || secondary == nil},
	})
	return rec, nil
}

// lookupAwards fetches and normalizes nominations. No match or a degraded
// source both yield an empty slice.
func (b *Builder) lookupAwards(ctx context.Context, canonicalTitle string) []AwardEntry {
	noms, err := b.awards.Lookup(ctx, canonicalTitle)
	if err != nil {
		b.reportSourceFailure(b.awards.Name(), canonicalTitle, err)
		return []AwardEntry{}
	}
	entries := make([]AwardEntry, 0, len(noms))
	for _, n := range noms {
		entries = append(entries, newAwardEntry(n))
	}
	return entries
}

// enrichAwards is the best-effort async path. The enriched record replaces
// the cached one so the next lookup sees awards.
func (b *Builder) enrichAwards(ctx context.Context, cacheTitle, canonicalTitle string) {
	if b.opts.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.opts.SearchTimeout)
		defer cancel()
	}

	entries := b.lookupAwards(ctx, canonicalTitle)
	if rec, ok := b.cache.Get(cacheTitle); ok {
		enriched := *rec
		enriched.Awards = entries
		b.cache.Set(cacheTitle, &enriched)
	}
	b.bus.Publish(event.Event{
		Type: event.AwardsEnriched,
		Data: map[string]any{"title": canonicalTitle, "awards": len(entries)},
	})
}

func (b *Builder) reportSourceFailure(name source.Name, title string, err error) {
	var noMatch *source.ErrNoMatch
	if errors.As(err, &noMatch) {
		b.logger.Debug("no match",
			slog.String("source", string(name)),
			slog.String("title", title))
		return
	}
	b.logger.Warn("source lookup failed",
		slog.String("source", string(name)),
		slog.String("title", title),
		slog.Any("error", err))
	b.bus.Publish(event.Event{
		Type: event.SourceDegraded,
		Data: map[string]any{"source": string(name), "title": title},
	})
}
