package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	ScoringDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matcher_scoring_duration_seconds",
			Help:    "Duration of a single job/talent scoring run in seconds.",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 15},
		},
	)
	ComponentDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "matcher_component_duration_seconds",
			Help:       "Duration of each scoring component.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"component"},
	)
	DegradedScoresCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "matcher_degraded_scores_total",
			Help: "Total number of scores computed with the lexical fallback after a text model failure.",
		},
	)
	ScoredBandsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_scored_bands_total",
			Help: "Total number of computed scores by quality band.",
		},
		[]string{"band"},
	)
	CacheLookupsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_cache_lookups_total",
			Help: "Score cache lookups by result (hit, miss, stale).",
		},
		[]string{"result"},
	)
	HTTPRequestsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_http_requests_total",
			Help: "Total number of handled HTTP requests.",
		},
		[]string{"route", "status"},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(ErrorsCounter)
		prometheus.MustRegister(ScoringDuration)
		prometheus.MustRegister(ComponentDuration)
		prometheus.MustRegister(DegradedScoresCounter)
		prometheus.MustRegister(ScoredBandsCounter)
		prometheus.MustRegister(CacheLookupsCounter)
		prometheus.MustRegister(HTTPRequestsCounter)
	})
}

func StartMetricsServer(addr string) {
	Register()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(addr, mux))
	}()
}
