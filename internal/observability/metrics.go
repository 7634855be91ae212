package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cyberdash"

// Metrics holds the Prometheus collectors for dataset loading and queries.
// Collectors live on a private registry so several instances can coexist
// (tests build one per server).
type Metrics struct {
	registry *prometheus.Registry

	QueriesTotal    *prometheus.CounterVec
	QueryDuration   *prometheus.HistogramVec
	DatasetRecords  prometheus.Gauge
	DatasetLoadTime prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		QueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Dashboard queries by query name and HTTP status",
			},
			[]string{"query", "status"},
		),
		QueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Dashboard query duration",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
			},
			[]string{"query"},
		),
		DatasetRecords: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_records",
				Help:      "Records in the loaded dataset",
			},
		),
		DatasetLoadTime: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_load_duration_seconds",
				Help:      "Time spent loading the dataset",
			},
		),
	}
}

// ObserveLoad records a completed dataset load.
func (m *Metrics) ObserveLoad(records int, elapsed time.Duration) {
	m.DatasetRecords.Set(float64(records))
	m.DatasetLoadTime.Set(elapsed.Seconds())
}

// ObserveQuery records one answered query.
func (m *Metrics) ObserveQuery(query string, status int, elapsed time.Duration) {
	m.QueriesTotal.WithLabelValues(query, strconv.Itoa(status)).Inc()
	m.QueryDuration.WithLabelValues(query).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
