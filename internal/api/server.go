package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"flowerboard/internal/market"
	"flowerboard/internal/pipeline"
)

const snapshotHeader = "X-Snapshot-Id"

// Reports is the evaluation surface the server reads from.
type Reports interface {
	Efficiency(ctx context.Context, opts pipeline.Options) (pipeline.EfficiencyReport, error)
	Trades(ctx context.Context, opts pipeline.Options) (pipeline.TradeReport, error)
}

// SnapshotPeeker exposes the cached snapshot without refreshing it.
type SnapshotPeeker interface {
	Peek() (market.Snapshot, time.Time, bool)
}

type Server struct {
	log   *slog.Logger
	svc   Reports
	cache SnapshotPeeker
	mux   *chi.Mux
}

// New builds the router. cache may be nil.
func New(logger *slog.Logger, svc Reports, cache SnapshotPeeker) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		log:   logger,
		svc:   svc,
		cache: cache,
		mux:   chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/efficiency", s.handleEfficiency)
		r.Get("/coin-trades", s.handleTrades)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	payload := map[string]any{"ok": true}
	if s.cache != nil {
		if snap, expires, ok := s.cache.Peek(); ok {
			payload["snapshot"] = map[string]any{
				"id":        snap.ID,
				"source":    snap.Source,
				"fetchedAt": snap.FetchedAt,
				"expiresAt": expires.UTC(),
				"prices":    len(snap.Book),
			}
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleEfficiency(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Efficiency(r.Context(), optionsFromRequest(r, pipeline.SortValueDesc))
	if err != nil {
		s.writeFeedError(w, r, err)
		return
	}
	w.Header().Set(snapshotHeader, report.Snapshot.ID)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Trades(r.Context(), optionsFromRequest(r, pipeline.SortRatioDesc))
	if err != nil {
		s.writeFeedError(w, r, err)
		return
	}
	w.Header().Set(snapshotHeader, report.Snapshot.ID)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) writeFeedError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var statusErr *market.StatusError
	if errors.As(err, &statusErr) {
		status = http.StatusBadGateway
	}
	s.log.Error("evaluation failed",
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"status", status,
		"err", err,
	)
	writeError(w, status, err.Error())
}

func optionsFromRequest(r *http.Request, defaultSort string) pipeline.Options {
	q := r.URL.Query()
	sortBy := strings.TrimSpace(q.Get("sort"))
	if sortBy == defaultSort {
		sortBy = ""
	}
	strict, _ := strconv.ParseBool(q.Get("strict"))
	return pipeline.Options{
		Query: pipeline.Query{
			Kind:   q.Get("kind"),
			Search: q.Get("q"),
			Sort:   sortBy,
		},
		Strict: strict,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
