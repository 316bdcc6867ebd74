package api

import (
	"net/http"

	"github.com/pellman/matinee/internal/source"
)

type sourceInfo struct {
	Name        string            `json:"name"`
	DisplayName string            `json:"display_name"`
	Capability  source.Capability `json:"capability"`
}

func (r *Router) handleListSources(w http.ResponseWriter, _ *http.Request) {
	caps := source.Capabilities()
	out := make([]sourceInfo, 0, len(caps))
	for _, name := range source.AllNames() {
		out = append(out, sourceInfo{
			Name:        string(name),
			DisplayName: name.DisplayName(),
			Capability:  caps[name],
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"sources": out})
}
