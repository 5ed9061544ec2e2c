package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Bidscore/internal/scoring"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	bidsScored       *prometheus.CounterVec
	anomalies        *prometheus.CounterVec
	totalScore       prometheus.Histogram
	confidence       prometheus.Histogram
	validationErrors *prometheus.CounterVec
	missionsRanked   prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New registers the collectors on reg. Passing nil uses the default registry.
func New(reg prometheus.Registerer) *Metrics {
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	} else if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	scoreBuckets := prometheus.LinearBuckets(10, 10, 10)
	m := &Metrics{
		gatherer: gatherer,
		bidsScored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bidscore_bids_scored_total",
			Help: "Bids scored, by band and estimator mode.",
		}, []string{"band", "mode"}),
		anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bidscore_anomalies_total",
			Help: "Anomaly tags raised, by tag.",
		}, []string{"tag"}),
		totalScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bidscore_total_score",
			Help:    "Distribution of aggregate bid scores.",
			Buckets: scoreBuckets,
		}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bidscore_confidence",
			Help:    "Distribution of scoring confidence.",
			Buckets: scoreBuckets,
		}),
		validationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bidscore_validation_errors_total",
			Help: "Rejected scoring inputs, by offending field.",
		}, []string{"field"}),
		missionsRanked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bidscore_missions_ranked_total",
			Help: "Missions whose bids were ranked.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bidscore_http_requests_total",
			Help: "HTTP requests processed, by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bidscore_http_request_duration_seconds",
			Help:    "HTTP request durations, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		m.bidsScored,
		m.anomalies,
		m.totalScore,
		m.confidence,
		m.validationErrors,
		m.missionsRanked,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) ObserveResult(r scoring.ScoringResult) {
	if m == nil {
		return
	}
	m.bidsScored.WithLabelValues(string(r.Band), string(r.Mode)).Inc()
	m.totalScore.Observe(float64(r.TotalScore))
	m.confidence.Observe(float64(r.Confidence))
	for _, a := range r.Anomalies {
		m.anomalies.WithLabelValues(string(a)).Inc()
	}
}

func (m *Metrics) ObserveValidation(errs scoring.ValidationErrors) {
	if m == nil {
		return
	}
	for _, e := range errs {
		m.validationErrors.WithLabelValues(e.Field).Inc()
	}
}

func (m *Metrics) MissionRanked() {
	if m == nil {
		return
	}
	m.missionsRanked.Inc()
}

// Middleware records request counts and durations labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
