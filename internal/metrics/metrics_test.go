package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Bidscore/internal/scoring"
)

func TestObserveResult(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveResult(scoring.ScoringResult{
		TotalScore: 72,
		Confidence: 70,
		Band:       scoring.BandGood,
		Mode:       scoring.ModeAdvanced,
		Anomalies:  []scoring.Anomaly{scoring.AnomalyPriceDumping, scoring.AnomalyArtificialProfile},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.bidsScored.WithLabelValues("good", "advanced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.anomalies.WithLabelValues(string(scoring.AnomalyPriceDumping))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.anomalies.WithLabelValues(string(scoring.AnomalyArtificialProfile))))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.anomalies.WithLabelValues(string(scoring.AnomalyIncoherentScores))))
}

func TestObserveValidation(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveValidation(scoring.ValidationErrors{
		{Field: "factors.price_ratio", Reason: "must be positive"},
		{Field: "factors.price_ratio", Reason: "must be finite"},
	})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.validationErrors.WithLabelValues("factors.price_ratio")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveResult(scoring.ScoringResult{})
	m.ObserveValidation(scoring.ValidationErrors{{Field: "x"}})
	m.MissionRanked()

	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestMiddlewareLabelsRoutePattern(t *testing.T) {
	m := New(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/bids/{id}/score", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bids/123/score", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/bids/{id}/score", "404")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.MissionRanked()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "bidscore_missions_ranked_total 1"))
}
