package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parley_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// BlobOperations counts blob store calls by operation and outcome. The
	// outcome label distinguishes retried-then-succeeded calls from hard
	// failures surfaced to the caller.
	BlobOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parley_blob_operations_total",
		Help: "Total number of blob store operations by operation and outcome",
	}, []string{"operation", "outcome"})

	// CacheResults counts cache-aside lookups by key class and result.
	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parley_cache_results_total",
		Help: "Total number of cache lookups by key class and result (hit/miss)",
	}, []string{"key", "result"})

	// LikeConflicts counts duplicate like attempts rejected by the unique
	// membership index, by target kind.
	LikeConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parley_like_conflicts_total",
		Help: "Total number of like attempts rejected as duplicates",
	}, []string{"target"})

	// CommentsCascadeDeleted counts comments removed by subtree cascades.
	CommentsCascadeDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parley_comments_cascade_deleted_total",
		Help: "Total number of comments removed by cascade deletes",
	})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}

// RecordBlobOperation increments the blob operation counter.
func RecordBlobOperation(operation, outcome string) {
	BlobOperations.WithLabelValues(operation, outcome).Inc()
}

// RecordCacheResult increments the cache lookup counter for the key class.
func RecordCacheResult(key string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheResults.WithLabelValues(key, result).Inc()
}
