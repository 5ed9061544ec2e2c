package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/MikeSquared-Agency/Bidscore/internal/metrics"
	"github.com/MikeSquared-Agency/Bidscore/internal/ranker"
	"github.com/MikeSquared-Agency/Bidscore/internal/scoring"
	"github.com/MikeSquared-Agency/Bidscore/internal/store"
)

type RouterOptions struct {
	AdminToken         string
	RateLimitPerMinute int
}

// NewRouter wires the public API. s and rk may be nil when the service runs
// without a database; the store-backed routes then answer 503.
func NewRouter(engine *scoring.Engine, s store.Store, rk *ranker.Ranker, m *metrics.Metrics, opts RouterOptions, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(m.Middleware)
	r.Use(RequestLogger(logger))
	if opts.RateLimitPerMinute > 0 {
		r.Use(RateLimitMiddleware(opts.RateLimitPerMinute))
	}

	scoringH := NewScoringHandler(engine, m)
	missions := NewMissionsHandler(s, rk)
	bids := NewBidsHandler(s, rk)
	admin := NewAdminHandler(s)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/scoring/evaluate", scoringH.Evaluate)
		r.Post("/scoring/rank", scoringH.Rank)
		r.Get("/scoring/presets", scoringH.Presets)

		r.Post("/missions/{id}/rank", missions.Rank)
		r.Get("/missions/{id}/ranking", missions.Ranking)
		r.Post("/bids/{id}/score", bids.Score)
		r.Get("/bids/{id}/score", bids.Explain)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(opts.AdminToken))
			r.Get("/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter(m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", m.Handler())
	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type validationResponse struct {
	Error  string                   `json:"error"`
	Fields scoring.ValidationErrors `json:"fields"`
}

func writeValidation(w http.ResponseWriter, ve scoring.ValidationErrors) {
	writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Error: ve.Error(), Fields: ve})
}
