package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/atlas/internal/coverage"
	"github.com/leapstack-labs/atlas/internal/crawl"
	"github.com/leapstack-labs/atlas/internal/esa"
	"github.com/leapstack-labs/atlas/internal/snapshot"
	"github.com/leapstack-labs/atlas/internal/state"
	"github.com/leapstack-labs/atlas/pkg/core"
)

// Response headers.
const (
	SnapshotCacheControl = "public, s-maxage=3600, stale-while-revalidate=600"
	CacheHeader          = "X-Atlas-Cache"
)

// MaxHistoryLimit caps /api/snapshots.
const MaxHistoryLimit = 100

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleESA(w http.ResponseWriter, r *http.Request) {
	snap, hit, err := s.svc.ESA(r.Context())
	if err != nil {
		s.writeError(w, r, errorStatus(err), err)
		return
	}
	writeSnapshot(w, snap, hit)
}

func (s *Server) handleSEO(w http.ResponseWriter, r *http.Request) {
	snap, hit, err := s.svc.SEO(r.Context())
	if err != nil {
		s.writeError(w, r, errorStatus(err), err)
		return
	}
	writeSnapshot(w, snap, hit)
}

// handleContent serves static or live coverage. Live mode always crawls the
// configured base URL; callers cannot point the crawler elsewhere.
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	mode := core.ContentMode(r.URL.Query().Get("mode"))
	switch mode {
	case "":
		mode = core.ContentStatic
	case core.ContentStatic, core.ContentLive:
	default:
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("unknown mode %q (expected static or live)", mode))
		return
	}

	snap, hit, err := s.svc.Content(r.Context(), mode, "")
	if err != nil {
		status := errorStatus(err)
		if mode == core.ContentLive && status == http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		s.writeError(w, r, status, err)
		return
	}
	writeSnapshot(w, snap, hit)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var kind core.SnapshotKind
	if raw := q.Get("kind"); raw != "" {
		k, ok := core.ParseSnapshotKind(raw)
		if !ok {
			s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("unknown kind %q (expected esa, seo or content)", raw))
			return
		}
		kind = k
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, r, http.StatusBadRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = min(n, MaxHistoryLimit)
	}

	headers, err := s.svc.History(r.Context(), kind, limit)
	if err != nil {
		s.writeError(w, r, errorStatus(err), err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, headers)
}

func (s *Server) handleArchived(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Archived(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, errorStatus(err), err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleAttribution(w http.ResponseWriter, r *http.Request) {
	a, _ := AttributionFrom(r.Context())
	w.Header().Set("Cache-Control", "private, no-store")
	writeJSON(w, http.StatusOK, a)
}

// errorStatus maps domain errors to HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, esa.ErrUnavailable), errors.Is(err, snapshot.ErrNoArchive):
		return http.StatusServiceUnavailable
	case errors.Is(err, snapshot.ErrUnknownMode), errors.Is(err, coverage.ErrNoBaseURL):
		return http.StatusBadRequest
	case errors.Is(err, state.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, crawl.ErrSitemap):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeSnapshot(w http.ResponseWriter, v any, hit bool) {
	w.Header().Set("Cache-Control", SnapshotCacheControl)
	if hit {
		w.Header().Set(CacheHeader, "hit")
	} else {
		w.Header().Set(CacheHeader, "miss")
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Warn("request failed", "path", r.URL.Path, "status", status, "error", err)
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
