// Package metrics provides real-time metrics collection for the climate API.
//
// It uses a channel-based event pipeline to asynchronously collect metrics about:
//   - Query counts per country
//   - Query outcomes (matched / no_match)
//   - Scan times with percentile calculations (P50, P95, P99)
//   - HTTP status code distribution
//   - Size of the loaded dataset
//
// The collector runs in a dedicated goroutine and processes events without blocking
// the request path. Events are sent via buffered channels with non-blocking semantics
// to prevent performance degradation under load.
//
// Two views are served: a JSON snapshot (Collector.Handler) and a Prometheus
// exposition backed by a private registry (Collector.Prometheus().Handler).
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.EventChannel() <- metrics.MetricEvent{
//		Type:       metrics.EventQueryCompleted,
//		Country:    "Brazil",
//		Outcome:    "matched",
//		Duration:   150 * time.Microsecond,
//		StatusCode: 200,
//	}
//
//	snapshot := collector.Snapshot()
package metrics
