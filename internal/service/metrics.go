package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	kindText  = "text"
	kindImage = "image"
)

var (
	// AICallsTotal counts calls to the external generators by outcome.
	AICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fridgechef_ai_calls_total",
			Help: "External AI generator calls by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	AICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fridgechef_ai_call_duration_seconds",
			Help:    "Latency of external AI generator calls",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"kind"},
	)

	// AIFallbacksTotal counts enrichments that used default values instead of
	// generated ones.
	AIFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fridgechef_ai_fallbacks_total",
			Help: "Enrichments that fell back to defaults, by kind and reason",
		},
		[]string{"kind", "reason"},
	)

	EnrichmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fridgechef_recipe_enrichments_total",
			Help: "Recipes whose steps were generated and stored",
		},
	)
)
