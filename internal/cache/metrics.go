package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	hits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_cache_hits_total",
		Help: "Cache reads served without touching the store.",
	})
	misses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_cache_misses_total",
		Help: "Cache reads that fell through to the loader.",
	})
)
