package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pellman/matinee/internal/prefs"
)

func (r *Router) handleGetPreferences(w http.ResponseWriter, req *http.Request) {
	userID := req.PathValue("id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	p, err := r.prefs.Get(req.Context(), userID)
	if err != nil {
		r.logger.Error("reading preferences failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "preference store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (r *Router) handleTaxonomy(w http.ResponseWriter, req *http.Request) {
	tax, err := r.prefs.Taxonomy(req.Context())
	if err != nil {
		r.logger.Error("reading taxonomy failed", "error", err)
		writeError(w, http.StatusInternalServerError, "preference store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, tax)
}

func (r *Router) handlePutPreferences(w http.ResponseWriter, req *http.Request) {
	userID := req.PathValue("id")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "user id is required")
		return
	}

	var body prefs.UserPreferences
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	// The path, not the body, owns the identity.
	body.UserID = userID
	if body.Genres == nil {
		body.Genres = prefs.PreferenceMap{}
	}
	if body.Awards == nil {
		body.Awards = prefs.PreferenceMap{}
	}

	if err := r.prefs.Put(req.Context(), &body); err != nil {
		if errors.Is(err, prefs.ErrInvalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		r.logger.Error("storing preferences failed", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "preference store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, &body)
}
