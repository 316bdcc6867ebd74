package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pellman/matinee/internal/event"
	"github.com/pellman/matinee/internal/score"
)

// insufficientData is reported only when every source came back empty.
const insufficientData = "could not find enough data about this title"

func (r *Router) handleLookup(w http.ResponseWriter, req *http.Request) {
	title := strings.TrimSpace(req.URL.Query().Get("title"))
	if title == "" {
		writeError(w, http.StatusBadRequest, "title query parameter is required")
		return
	}

	rec, err := r.builder.Build(req.Context(), title)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusGatewayTimeout, "lookup timed out")
			return
		}
		r.logger.Error("lookup failed", "title", title, "error", err)
		writeError(w, http.StatusBadGateway, "lookup failed")
		return
	}
	if rec.Empty() {
		writeError(w, http.StatusNotFound, insufficientData)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (r *Router) handleDecision(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Title  string `json:"title"`
		UserID string `json:"user_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" || body.UserID == "" {
		writeError(w, http.StatusBadRequest, "title and user_id are required")
		return
	}

	rec, err := r.builder.Build(req.Context(), body.Title)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusGatewayTimeout, "lookup timed out")
			return
		}
		r.logger.Error("lookup failed", "title", body.Title, "error", err)
		writeError(w, http.StatusBadGateway, "lookup failed")
		return
	}
	if rec.Empty() {
		writeError(w, http.StatusNotFound, insufficientData)
		return
	}

	// A preference-store outage is the one failure that aborts the
	// decision outright; every other missing input degrades to defaults.
	p, err := r.prefs.Get(req.Context(), body.UserID)
	if err != nil {
		r.logger.Error("preference store unavailable", "user_id", body.UserID, "error", err)
		writeError(w, http.StatusInternalServerError, "preference store unavailable")
		return
	}

	decision := score.Compute(rec, p, r.threshold())
	if r.bus != nil {
		r.bus.Publish(event.Event{
			Type: event.DecisionComputed,
			Data: map[string]any{
				"title":        rec.Title,
				"user_id":      body.UserID,
				"final_score":  decision.FinalScore,
				"should_watch": decision.ShouldWatch,
			},
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"record":   rec,
		"decision": decision,
	})
}
