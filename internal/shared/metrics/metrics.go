package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total /recommend requests by HTTP status",
		},
		[]string{"status"},
	)

	RecommendResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_results",
			Help:    "Number of rackets returned per recommendation",
			Buckets: []float64{0, 1, 2, 3},
		},
	)

	ExplanationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "explanation_outcomes_total",
			Help: "Explanation results by outcome (generated, quota, error)",
		},
		[]string{"outcome"},
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "Duration of text generation calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"provider"},
	)

	CatalogRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_records",
			Help: "Number of rackets loaded into the catalog",
		},
	)
)

// ObserveRecommendRequest records the final status of a /recommend call.
func ObserveRecommendRequest(status int) {
	RecommendRequests.WithLabelValues(strconv.Itoa(status)).Inc()
}

// ObserveResults records the size of a recommendation result.
func ObserveResults(n int) {
	RecommendResults.Observe(float64(n))
}

// ObserveExplanation records an explanation outcome.
func ObserveExplanation(outcome string) {
	ExplanationOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveLLMDuration records how long a provider call took.
func ObserveLLMDuration(provider string, d time.Duration) {
	LLMRequestDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// SetCatalogRecords publishes the catalog size.
func SetCatalogRecords(n int) {
	CatalogRecords.Set(float64(n))
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
