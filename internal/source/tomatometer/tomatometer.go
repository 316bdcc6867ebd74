// Package tomatometer adapts the critic/audience percentage site. The
// search endpoint speaks JSON, but detail pages are plain HTML: older
// pages carry a score-board element with score attributes, newer ones
// only a JSON-LD block. Both shapes normalize into source.ScorecardInfo.
package tomatometer

import (
	"bytes"
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

	"golang.org/x/net/html"

	"github.com/pellman/matinee/internal/match"
	"github.com/pellman/matinee/internal/retry"
	"github.com/pellman/matinee/internal/source"
)

// Adapter implements source.ScorecardSource.
type Adapter struct {
	client   *http.Client
	limiter  *source.RateLimiterMap
	logger   *slog.Logger
	baseURL  string
	retryCfg retry.Config
}

// New creates a Tomatometer adapter.
func New(limiter *source.RateLimiterMap, logger *slog.Logger, baseURL string, retryCfg retry.Config) *Adapter {
	return &Adapter{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter:  limiter,
		logger:   logger,
		baseURL:  strings.TrimRight(baseURL, "/"),
		retryCfg: retryCfg,
	}
}

func (a *Adapter) Name() source.Name {
	return source.NameTomatometer
}

// Lookup searches for the title, resolves the best candidate, and scrapes
// its detail page.
func (a *Adapter) Lookup(ctx context.Context, title string) (*source.ScorecardInfo, error) {
	best, err := retry.Do(ctx, a.logger, "tomatometer search", a.retryCfg,
		func(ctx context.Context) (*match.Candidate, error) {
			return a.search(ctx, title)
		})
	if err != nil {
		return nil, err
	}

	info, err := retry.Do(ctx, a.logger, "tomatometer detail", a.retryCfg,
		func(ctx context.Context) (*source.ScorecardInfo, error) {
			return a.fetchDetail(ctx, best.URL)
		})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// search queries the search endpoint and picks the best candidate.
func (a *Adapter) search(ctx context.Context, title string) (*match.Candidate, error) {
	params := url.Values{"query": {strings.TrimSpace(title)}}
	body, err := a.doRequest(ctx, a.baseURL+"/search?"+params.Encode(), "application/json")
	if err != nil {
		return nil, err
	}

	var resp SearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}

	candidates := make([]match.Candidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.URL == "" {
			continue
		}
		candidates = append(candidates, match.Candidate{
			Title:    item.Title,
			URL:      item.URL,
			YearHint: item.Year,
		})
	}

	best := match.ResolveCandidate(title, candidates)
	if best == nil {
		return nil, retry.Permanent(&source.ErrNoMatch{Source: source.NameTomatometer, Title: title})
	}

	a.logger.Debug("resolved candidate",
		slog.String("title", best.Title),
		slog.Float64("similarity", best.Similarity))
	return best, nil
}

// fetchDetail loads and parses the HTML detail page for a resolved candidate.
func (a *Adapter) fetchDetail(ctx context.Context, detailURL string) (*source.ScorecardInfo, error) {
	if strings.HasPrefix(detailURL, "/") {
		detailURL = a.baseURL + detailURL
	}

	body, err := a.doRequest(ctx, detailURL, "text/html")
	if err != nil {
		var noMatch *source.ErrNoMatch
		if errors.As(err, &noMatch) {
			return nil, &source.ErrSourceUnavailable{
				Source: source.NameTomatometer,
				Cause:  err,
			}
		}
		return nil, err
	}

	info, err := parseDetail(body)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("parsing detail page: %w", err))
	}
	info.URL = detailURL
	return info, nil
}

// parseDetail extracts scorecard data from a detail page. The score-board
// element wins when present; otherwise the JSON-LD block fills in what it
// carries (no audience score there).
func parseDetail(body []byte) (*source.ScorecardInfo, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	info := &source.ScorecardInfo{}
	var ld *ldMovie
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "score-board":
				if v := attr(n, "title"); v != "" {
					info.Title = v
				}
				info.CriticScore = parsePercent(attr(n, "tomatometerscore"))
				info.AudienceScore = parsePercent(attr(n, "audiencescore"))
			case "script":
				if attr(n, "type") == "application/ld+json" && n.FirstChild != nil {
					var m ldMovie
					if json.Unmarshal([]byte(n.FirstChild.Data), &m) == nil && m.Type == "Movie" {
						ld = &m
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if ld != nil {
		if info.Title == "" {
			info.Title = ld.Name
		}
		if info.CriticScore == 0 {
			info.CriticScore = numberToFloat(ld.AggregateRating.RatingValue)
		}
		if info.AudienceScore == 0 {
			info.AudienceScore = numberToFloat(ld.Audience.RatingValue)
		}
		info.Genres = ld.Genre
		info.ReleaseDate = ld.DateCreated
		info.Image = ld.Image
	}

	if info.Title == "" {
		return nil, errors.New("no recognizable movie markup")
	}
	return info, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// parsePercent handles both "93" and "93%". Anything unparseable (the site
// renders "N/A" for unreviewed titles) comes back 0.
func parsePercent(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 100 {
		return 0
	}
	return v
}

func numberToFloat(n json.Number) float64 {
	v, err := n.Float64()
	if err != nil {
		return 0
	}
	return v
}

// doRequest executes an HTTP GET with rate limiting and standard headers.
func (a *Adapter) doRequest(ctx context.Context, reqURL, accept string) ([]byte, error) {
	if err := a.limiter.Wait(ctx, source.NameTomatometer); err != nil {
		return nil, &source.ErrSourceUnavailable{
			Source: source.NameTomatometer,
			Cause:  fmt.Errorf("rate limiter: %w", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", accept)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &source.ErrSourceUnavailable{
			Source: source.NameTomatometer,
			Cause:  err,
		}
	}
	defer resp.Body.Close() //nolint:errcheck

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &source.ErrNoMatch{Source: source.NameTomatometer, Title: reqURL}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &source.ErrSourceUnavailable{
			Source:     source.NameTomatometer,
			Cause:      fmt.Errorf("HTTP %d", resp.StatusCode),
			RetryAfter: 2 * time.Second,
		}
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &source.ErrSourceUnavailable{
			Source: source.NameTomatometer,
			Cause:  fmt.Errorf("unexpected HTTP %d", resp.StatusCode),
		}
	}

	return io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
}
