package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	retriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_store_retries_total",
		Help: "Transient store errors that triggered a retry, per operation.",
	}, []string{"op"})

	slowQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_store_slow_queries_total",
		Help: "Store operations slower than the configured threshold.",
	}, []string{"op"})
)
