// Package screenboard implements the source adapter for the primary review
// aggregator API (titles rated on a 0-10 scale).
package screenboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pellman/matinee/internal/match"
	"github.com/pellman/matinee/internal/retry"
	"github.com/pellman/matinee/internal/source"
)

// Adapter implements source.RatingSource against the Screenboard API.
type Adapter struct {
	client   *http.Client
	limiter  *source.RateLimiterMap
	logger   *slog.Logger
	baseURL  string
	apiKey   string
	retryCfg retry.Config
}

// New creates a Screenboard adapter.
func New(limiter *source.RateLimiterMap, logger *slog.Logger, baseURL, apiKey string, retryCfg retry.Config) *Adapter {
	return &Adapter{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter:  limiter,
		logger:   logger.With(slog.String("source", "screenboard")),
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		retryCfg: retryCfg,
	}
}

// Name returns the source identifier.
func (a *Adapter) Name() source.Name { return source.NameScreenboard }

// Lookup searches Screenboard for the title, resolves the best candidate,
// and fetches its detail record. Returns *source.ErrNoMatch when the search
// comes back empty.
func (a *Adapter) Lookup(ctx context.Context, title string) (*source.RatingInfo, error) {
	best, err := retry.Do(ctx, a.logger, "screenboard search", a.retryCfg,
		func(ctx context.Context) (*match.Candidate, error) {
			return a.search(ctx, title)
		})
	if err != nil {
		return nil, err
	}

	detail, err := retry.Do(ctx, a.logger, "screenboard detail", a.retryCfg,
		func(ctx context.Context) (*TitleResponse, error) {
			return a.fetchTitle(ctx, best.URL)
		})
	if err != nil {
		return nil, err
	}

	info := &source.RatingInfo{
		Title:  detail.Title,
		Image:  detail.Poster,
		URL:    a.baseURL + "/title/" + detail.ID,
		Genres: detail.Genres,
	}
	if r, parseErr := strconv.ParseFloat(detail.Rating, 64); parseErr == nil {
		info.Rating = r
	}
	return info, nil
}

// search queries the search endpoint and picks the best candidate. The
// endpoint is exact-phrase sensitive, so an empty result retries with
// spelling variants (roman vs arabic sequel numbers) before giving up.
func (a *Adapter) search(ctx context.Context, title string) (*match.Candidate, error) {
	var results []SearchHit
	for _, variant := range match.Variants(title) {
		hits, err := a.searchOnce(ctx, variant)
		if err != nil {
			return nil, err
		}
		if len(hits) > 0 {
			results = hits
			break
		}
	}

	candidates := make([]match.Candidate, 0, len(results))
	for _, hit := range results {
		candidates = append(candidates, match.Candidate{
			Title:    hit.Title,
			URL:      "/title/" + hit.ID,
			YearHint: hit.Year,
		})
	}

	best := match.ResolveCandidate(title, candidates)
	if best == nil {
		return nil, retry.Permanent(&source.ErrNoMatch{Source: source.NameScreenboard, Title: title})
	}

	a.logger.Debug("resolved candidate",
		slog.String("title", best.Title),
		slog.Float64("similarity", best.Similarity))
	return best, nil
}

func (a *Adapter) searchOnce(ctx context.Context, query string) ([]SearchHit, error) {
	params := url.Values{"query": {strings.TrimSpace(query)}}
	body, err := a.doRequest(ctx, a.baseURL+"/search?"+params.Encode())
	if err != nil {
		return nil, err
	}

	var resp SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}
	return resp.Results, nil
}

// fetchTitle loads the detail record for a resolved candidate.
func (a *Adapter) fetchTitle(ctx context.Context, path string) (*TitleResponse, error) {
	body, err := a.doRequest(ctx, a.baseURL+path)
	if err != nil {
		// A vanished detail page for a resolved candidate is a source
		// outage, not a no-match.
		var noMatch *source.ErrNoMatch
		if errors.As(err, &noMatch) {
			return nil, &source.ErrSourceUnavailable{
				Source: source.NameScreenboard,
				Cause:  err,
			}
		}
		return nil, err
	}

	var resp TitleResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing title response: %w", err)
	}
	return &resp, nil
}

// doRequest executes an HTTP GET with rate limiting and standard headers.
func (a *Adapter) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	if err := a.limiter.Wait(ctx, source.NameScreenboard); err != nil {
		return nil, &source.ErrSourceUnavailable{
			Source: source.NameScreenboard,
			Cause:  fmt.Errorf("rate limiter: %w", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if a.apiKey != "" {
		req.Header.Set("X-Api-Key", a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &source.ErrSourceUnavailable{
			Source: source.NameScreenboard,
			Cause:  err,
		}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &source.ErrNoMatch{Source: source.NameScreenboard, Title: reqURL}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &source.ErrSourceUnavailable{
			Source:     source.NameScreenboard,
			Cause:      fmt.Errorf("HTTP %d", resp.StatusCode),
			RetryAfter: 2 * time.Second,
		}
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &source.ErrSourceUnavailable{
			Source: source.NameScreenboard,
			Cause:  fmt.Errorf("unexpected HTTP %d", resp.StatusCode),
		}
	}

	return io.ReadAll(io.LimitReader(resp.Body, 512*1024))
}
