package redis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// cacheReads counts schedule cache reads by result: "hit", "miss" or "error".
var cacheReads = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "reservation",
		Name:      "schedule_cache_total",
		Help:      "Total number of schedule cache reads, labelled by result (hit/miss/error).",
	},
	[]string{"result"},
)
