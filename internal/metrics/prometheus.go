package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusExporter keeps its own registry so that several collectors
// (one per test, for instance) never clash on registration.
type PrometheusExporter struct {
	registry       *prometheus.Registry
	queriesTotal   *prometheus.CounterVec
	queryDuration  prometheus.Histogram
	matchedRecords prometheus.Histogram
	datasetRecords prometheus.Gauge
	datasetSkipped prometheus.Gauge
}

func NewPrometheusExporter() *PrometheusExporter {
	e := &PrometheusExporter{
		registry: prometheus.NewRegistry(),
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "climate_queries_total",
			Help: "Total number of average temperature queries by outcome",
		}, []string{"outcome"}),
		queryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "climate_query_duration_seconds",
			Help:    "Time spent scanning the dataset for one query",
			Buckets: prometheus.ExponentialBuckets(0.000001, 4, 11),
		}),
		matchedRecords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "climate_query_matched_records",
			Help:    "Number of records averaged per query",
			Buckets: []float64{0, 1, 10, 100, 1000, 5000},
		}),
		datasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "climate_dataset_records",
			Help: "Records held in memory",
		}),
		datasetSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "climate_dataset_skipped_records",
			Help: "Source records dropped at load for lacking a temperature",
		}),
	}

	e.registry.MustRegister(
		e.queriesTotal,
		e.queryDuration,
		e.matchedRecords,
		e.datasetRecords,
		e.datasetSkipped,
	)

	return e
}

func (e *PrometheusExporter) ObserveQuery(outcome string, matches int, duration time.Duration) {
	e.queriesTotal.WithLabelValues(outcome).Inc()
	e.queryDuration.Observe(duration.Seconds())
	e.matchedRecords.Observe(float64(matches))
}

func (e *PrometheusExporter) SetDataset(records, skipped int) {
	e.datasetRecords.Set(float64(records))
	e.datasetSkipped.Set(float64(skipped))
}

// QueriesTotal exposes the query counter for a given outcome.
func (e *PrometheusExporter) QueriesTotal(outcome string) prometheus.Counter {
	return e.queriesTotal.WithLabelValues(outcome)
}

func (e *PrometheusExporter) DatasetRecords() prometheus.Gauge {
	return e.datasetRecords
}

func (e *PrometheusExporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
