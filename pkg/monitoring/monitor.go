package monitoring

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EvaluationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recitation_evaluations_total",
			Help: "Total number of recitation evaluations",
		},
		[]string{"level"},
	)

	ErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recitation_errors_total",
			Help: "Total number of detected recitation errors",
		},
		[]string{"error_type", "severity"},
	)

	RecommendationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lesson_recommendations_total",
			Help: "Total number of lesson recommendations by policy rule",
		},
		[]string{"strategy"},
	)

	EvaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recitation_evaluation_duration_seconds",
			Help:    "Duration of one evaluation cycle",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"mode"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(EvaluationCounter)
		prometheus.MustRegister(ErrorCounter)
		prometheus.MustRegister(RecommendationCounter)
		prometheus.MustRegister(EvaluationDuration)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
