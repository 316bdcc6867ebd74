// Package academy adapts the awards database. Unlike the rating sources,
// the film match is gated at a minimum similarity of 0.5: attributing an
// unrelated film's awards is worse than reporting none.
package academy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pellman/matinee/internal/match"
	"github.com/pellman/matinee/internal/retry"
	"github.com/pellman/matinee/internal/source"
)

// minSimilarity gates film-section matches.
const minSimilarity = 0.5

// Adapter implements source.AwardsSource.
type Adapter struct {
	client   *http.Client
	limiter  *source.RateLimiterMap
	logger   *slog.Logger
	baseURL  string
	retryCfg retry.Config
}

// New creates an Academy adapter.
func New(limiter *source.RateLimiterMap, logger *slog.Logger, baseURL string, retryCfg retry.Config) *Adapter {
	return &Adapter{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter:  limiter,
		logger:   logger,
		baseURL:  strings.TrimRight(baseURL, "/"),
		retryCfg: retryCfg,
	}
}

func (a *Adapter) Name() source.Name {
	return source.NameAcademy
}

// Lookup resolves the title against the film index and fetches its
// nominations. A film whose best match falls below the similarity gate
// yields *source.ErrNoMatch, never another film's awards.
func (a *Adapter) Lookup(ctx context.Context, title string) ([]source.AwardNomination, error) {
	best, err := retry.Do(ctx, a.logger, "academy search", a.retryCfg,
		func(ctx context.Context) (*match.Candidate, error) {
			return a.search(ctx, title)
		})
	if err != nil {
		return nil, err
	}

	noms, err := retry.Do(ctx, a.logger, "academy nominations", a.retryCfg,
		func(ctx context.Context) ([]source.AwardNomination, error) {
			return a.fetchNominations(ctx, best.URL)
		})
	if err != nil {
		return nil, err
	}
	return noms, nil
}

// search resolves the best film candidate, applying the similarity gate.
func (a *Adapter) search(ctx context.Context, title string) (*match.Candidate, error) {
	params := url.Values{"query": {strings.TrimSpace(title)}}
	body, err := a.doRequest(ctx, a.baseURL+"/films?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp FilmSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing film search response: %w", err)
	}

	candidates := make([]match.Candidate, 0, len(resp.Films))
	for _, hit := range resp.Films {
		candidates = append(candidates, match.Candidate{
			Title:    hit.Title,
			URL:      "/films/" + hit.ID + "/nominations",
			YearHint: hit.Year,
		})
	}

	best := match.ResolveCandidate(title, candidates)
	if best == nil || best.Similarity < minSimilarity {
		if best != nil {
			a.logger.Debug("best film match below gate",
				slog.String("title", best.Title),
				slog.Float64("similarity", best.Similarity))
		}
		return nil, retry.Permanent(&source.ErrNoMatch{Source: source.NameAcademy, Title: title})
	}
	return best, nil
}

// fetchNominations loads the per-film awards page.
func (a *Adapter) fetchNominations(ctx context.Context, path string) ([]source.AwardNomination, error) {
	body, err := a.doRequest(ctx, a.baseURL+path)
	if err != nil {
		// The film resolved; a missing awards page is an outage.
		var noMatch *source.ErrNoMatch
		if errors.As(err, &noMatch) {
			return nil, &source.ErrSourceUnavailable{
				Source: source.NameAcademy,
				Cause:  err,
			}
		}
		return nil, err
	}

	var resp NominationsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing nominations response: %w", err)
	}

	noms := make([]source.AwardNomination, 0, len(resp.Nominations))
	for _, item := range resp.Nominations {
		if item.Category == "" {
			continue
		}
		noms = append(noms, source.AwardNomination{
			Category:  item.Category,
			Statement: item.Statement,
			IsWin:     item.Winner,
		})
	}
	return noms, nil
}

// doRequest executes an HTTP GET with rate limiting and standard headers.
func (a *Adapter) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	if err := a.limiter.Wait(ctx, source.NameAcademy); err != nil {
		return nil, &source.ErrSourceUnavailable{
			Source: source.NameAcademy,
			Cause:  fmt.Errorf("rate limiter: %w", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &source.ErrSourceUnavailable{
			Source: source.NameAcademy,
			Cause:  err,
		}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &source.ErrNoMatch{Source: source.NameAcademy, Title: reqURL}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &source.ErrSourceUnavailable{
			Source:     source.NameAcademy,
			Cause:      fmt.Errorf("HTTP %d", resp.StatusCode),
			RetryAfter: 2 * time.Second,
		}
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &source.ErrSourceUnavailable{
			Source: source.NameAcademy,
			Cause:  fmt.Errorf("unexpected HTTP %d", resp.StatusCode),
		}
	}

	return io.ReadAll(io.LimitReader(resp.Body, 512*1024))
}
