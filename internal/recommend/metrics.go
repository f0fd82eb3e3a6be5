package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatasetRowsSkipped counts malformed dataset rows by reason.
	DatasetRowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fridgechef_dataset_rows_skipped_total",
			Help: "Dataset rows skipped while loading, by reason",
		},
		[]string{"reason"},
	)

	// DatasetRecipes is the number of candidates in the current snapshot.
	DatasetRecipes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fridgechef_dataset_recipes",
			Help: "Recipes in the loaded dataset snapshot",
		},
	)

	DatasetLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fridgechef_dataset_loads_total",
			Help: "Dataset load attempts by outcome",
		},
		[]string{"outcome"},
	)

	// RecommendResults tracks how many candidates survive ranking.
	RecommendResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fridgechef_recommend_results",
			Help:    "Ranked candidates returned per recommendation",
			Buckets: []float64{0, 1, 2, 3, 5, 10},
		},
	)
)
