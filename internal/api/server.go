package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/codewithboateng/speclint/internal/model"
	"github.com/codewithboateng/speclint/internal/storage"
)

// Store is the run and waiver contract the API needs.
type Store interface {
	ListRuns(limit, offset int) ([]storage.RunRow, error)
	LoadRun(id string) (model.Run, error)
	LoadLatestRun() (model.Run, error)
	HasRun(id string) (bool, error)
	ListFindings(runID string, minSeverity model.Severity) ([]model.Finding, error)

	ListWaivers(activeOnly bool) ([]storage.Waiver, error)
	CreateWaiver(ruleID, entityID, pattern, reason, createdBy string, expires time.Time) (int64, error)
	RevokeWaiver(id int64, by string) error
}

// UserStore is the auth and audit contract the API uses.
type UserStore interface {
	GetUserByUsername(string) (storage.User, string, error)
	CreateSession(int64, string, time.Time) error
	GetSession(string) (storage.User, error)
	DeleteSession(string) error
	LogAudit(username, action, resource string, meta map[string]any) error
}

type Server struct {
	DB              Store
	UserStore       UserStore
	Logger          *zap.Logger
	AllowedOrigins  []string
	SessionDuration time.Duration
	// RateLimit is requests per second per client; zero disables limiting.
	RateLimit float64
	Burst     int
}

// Routes returns the API handler with CORS, rate limiting and metrics
// applied to every route.
func (s *Server) Routes() http.Handler {
	if s.Logger == nil {
		s.Logger = zap.NewNop()
	}
	if s.SessionDuration <= 0 {
		s.SessionDuration = 12 * time.Hour
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", s.handleHealth)

	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/auth/logout", withAuth(s, s.handleLogout, "auth:logout"))
	mux.HandleFunc("GET /api/v1/me", withAuth(s, s.handleMe, "me"))

	mux.HandleFunc("GET /api/v1/runs", s.handleListRuns)
	mux.HandleFunc("GET /api/v1/runs/latest", s.handleGetLatest)
	mux.HandleFunc("GET /api/v1/runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /api/v1/runs/{id}/findings", s.handleListFindings)

	mux.HandleFunc("GET /api/v1/rules", s.handleRules)

	mux.HandleFunc("GET /api/v1/waivers", withAuth(s, s.handleListWaivers, "waivers:list"))
	mux.HandleFunc("POST /api/v1/waivers", withAdmin(s, s.handleCreateWaiver, "waivers:create"))
	mux.HandleFunc("POST /api/v1/waivers/{id}/revoke", withAdmin(s, s.handleRevokeWaiver, "waivers:revoke"))

	mux.Handle("GET /metrics", promhttp.Handler())

	var h http.Handler = mux
	h = s.withCORS(h)
	h = withRateLimit(newClientLimiter(s.RateLimit, s.Burst), h)
	h = s.withMetrics(mux, h)
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"version":   model.Version,
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := clamp(parseInt(q.Get("limit"), 20), 1, 200)
	offset := max(parseInt(q.Get("offset"), 0), 0)

	rows, err := s.DB.ListRuns(limit, offset)
	if err != nil {
		s.dbErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": rows, "limit": limit, "offset": offset,
	})
}

func (s *Server) handleGetLatest(w http.ResponseWriter, r *http.Request) {
	run, err := s.DB.LoadLatestRun()
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.err(w, http.StatusNotFound, "no runs")
			return
		}
		s.dbErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.DB.LoadRun(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.err(w, http.StatusNotFound, "run not found")
			return
		}
		s.dbErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleListFindings(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	min := model.SeverityInfo
	if raw := strings.TrimSpace(r.URL.Query().Get("min_severity")); raw != "" {
		sev, err := model.ParseSeverity(raw)
		if err != nil {
			s.err(w, http.StatusBadRequest, err.Error())
			return
		}
		min = sev
	}
	ok, err := s.DB.HasRun(id)
	if err != nil {
		s.dbErr(w, err)
		return
	}
	if !ok {
		s.err(w, http.StatusNotFound, "run not found")
		return
	}
	items, err := s.DB.ListFindings(id, min)
	if err != nil {
		s.dbErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id": id, "min_severity": min, "items": items, "count": len(items),
	})
}

func (s *Server) err(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func (s *Server) dbErr(w http.ResponseWriter, err error) {
	s.Logger.Error("store error", zap.Error(err))
	s.err(w, http.StatusInternalServerError, "db error")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func clamp(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
