package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "registry",
		Subsystem: "storage",
		Name:      "operations_total",
		Help:      "Storage operations by table, operation and result.",
	}, []string{"table", "op", "result"})

	latency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "registry",
		Subsystem: "storage",
		Name:      "operation_seconds",
		Help:      "Storage operation latency.",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"table", "op"})
)

func observe(table, op string, start time.Time, err *error) {
	result := "ok"
	if *err != nil {
		result = "error"
	}
	operations.WithLabelValues(table, op, result).Inc()
	latency.WithLabelValues(table, op).Observe(time.Since(start).Seconds())
}
