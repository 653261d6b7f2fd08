package api

import (
	"net/http"

	"github.com/codewithboateng/speclint/internal/rules"
)

type ruleMeta struct {
	ID              string `json:"id"`
	Summary         string `json:"summary"`
	DefaultSeverity string `json:"default_severity"`
	Configurable    bool   `json:"configurable"`
}

// GET /api/v1/rules lists rules in evaluation order.
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	out := []ruleMeta{}
	for _, rr := range rules.List() {
		out = append(out, ruleMeta{
			ID:              rr.ID,
			Summary:         rr.Summary,
			DefaultSeverity: string(rr.DefaultSeverity),
			Configurable:    rr.Configurable,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out, "count": len(out)})
}
