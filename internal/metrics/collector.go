package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventQueryReceived  EventType = "query_received"
	EventQueryCompleted EventType = "query_completed"
	EventDatasetLoaded  EventType = "dataset_loaded"
)

type MetricEvent struct {
	Type       EventType
	Timestamp  time.Time
	Country    string
	Outcome    string
	Matches    int
	Duration   time.Duration
	StatusCode int
	Records    int
	Skipped    int
}

type Collector struct {
	eventCh    chan MetricEvent
	metrics    *Metrics
	prometheus *PrometheusExporter
	logger     *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh:    make(chan MetricEvent, bufferSize),
		metrics:    NewMetrics(),
		prometheus: NewPrometheusExporter(),
		logger:     logger,
	}
}

func (c *Collector) EventChannel() chan<- MetricEvent {
	return c.eventCh
}

// Prometheus returns the exporter fed by this collector.
func (c *Collector) Prometheus() *PrometheusExporter {
	return c.prometheus
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventQueryReceived:
		c.metrics.IncrementQueries(event.Country)

	case EventQueryCompleted:
		c.metrics.RecordQuery(event.Country, event.Outcome, event.Duration, event.StatusCode)
		c.prometheus.ObserveQuery(event.Outcome, event.Matches, event.Duration)

	case EventDatasetLoaded:
		c.metrics.SetDataset(event.Records, event.Skipped)
		c.prometheus.SetDataset(event.Records, event.Skipped)
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot() Snapshot {
	return c.metrics.Snapshot()
}
