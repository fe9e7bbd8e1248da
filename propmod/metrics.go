package propmod

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	behaviorsAnalyzed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "animmod_behaviors_analyzed_total",
		Help: "Animation-playing behaviors analyzed, by graph kind",
	}, []string{"graph"})

	// diagnosticsTotal labels: "structural", "configuration"
	diagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "animmod_diagnostics_total",
		Help: "Recoverable problems recorded during analysis, by class",
	}, []string{"class"})

	leafCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "animmod_leaf_cache_lookups_total",
		Help: "Leaf curve cache lookups by result",
	}, []string{"result"})

	walkDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "animmod_walk_duration_seconds",
		Help:    "Duration of one full scene walk",
		Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
	})
)
