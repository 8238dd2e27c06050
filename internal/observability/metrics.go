// Package observability provides metrics and tracing instrumentation.
package observability

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plume_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plume_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// PublicationLimitRejections counts work creations rejected by the weekly quota.
	PublicationLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plume_publication_limit_rejections_total",
		Help: "Total number of literary work creations rejected by the 7-day quota",
	})

	// MembershipConflicts counts duplicate join/like attempts by relation kind.
	MembershipConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plume_membership_conflicts_total",
		Help: "Total number of duplicate membership or like attempts",
	}, []string{"relation"})
)

// InitHTTPMetrics creates the Prometheus middleware for HTTP request metrics.
func InitHTTPMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}
