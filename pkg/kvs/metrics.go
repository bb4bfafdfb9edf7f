package kvs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// backend label values
const (
	storeRedis    = "redis"
	storePostgres = "postgres"
)

// operation label values
const (
	opGet    = "get"
	opPut    = "put"
	opDelete = "delete"
)

// Metrics provides observability for the kvs stores. All methods are safe on
// a nil receiver so stores can run unmetered.
type Metrics struct {
	// Operation latencies by backend and operation
	OpLatency *prometheus.HistogramVec

	// Lookups that found a value, by backend
	Hits *prometheus.CounterVec

	// Lookups that found nothing, by backend
	Misses *prometheus.CounterVec

	// Failed operations by backend and operation
	Errors *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance with all kvs metrics registered.
func NewMetrics() *Metrics {
	return &Metrics{
		OpLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "oid4vc_kvs_op_duration_seconds",
			Help:    "Duration of key-value store operations by backend and operation",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"store", "op"}),

		Hits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "oid4vc_kvs_hits_total",
			Help: "Total lookups that found a value",
		}, []string{"store"}),

		Misses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "oid4vc_kvs_misses_total",
			Help: "Total lookups that found no value",
		}, []string{"store"}),

		Errors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "oid4vc_kvs_errors_total",
			Help: "Total failed key-value store operations by backend and operation",
		}, []string{"store", "op"}),
	}
}

// ObserveOp records the duration of a store operation.
func (m *Metrics) ObserveOp(store, op string, d time.Duration) {
	if m != nil {
		m.OpLatency.WithLabelValues(store, op).Observe(d.Seconds())
	}
}

// IncrementHit records a lookup that found a value.
func (m *Metrics) IncrementHit(store string) {
	if m != nil {
		m.Hits.WithLabelValues(store).Inc()
	}
}

// IncrementMiss records a lookup that found nothing.
func (m *Metrics) IncrementMiss(store string) {
	if m != nil {
		m.Misses.WithLabelValues(store).Inc()
	}
}

// IncrementError records a failed store operation.
func (m *Metrics) IncrementError(store, op string) {
	if m != nil {
		m.Errors.WithLabelValues(store, op).Inc()
	}
}
