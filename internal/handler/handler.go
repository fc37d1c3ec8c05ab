package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/angeloszaimis/climate-api/internal/dataset"
	"github.com/angeloszaimis/climate-api/internal/metrics"
)

// NameParam is the path wildcard holding the country name.
const NameParam = "name"

type ClimateHandler struct {
	logger           *slog.Logger
	dataset          *dataset.Dataset
	metricsCollector *metrics.Collector
	next             http.Handler
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

// ServeHTTP answers GET /api/climate/{name} with the mean temperature for
// the country as plain text. A request without a name is passed to the
// next handler untouched.
func (h *ClimateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue(NameParam)
	if name == "" {
		h.next.ServeHTTP(w, r)
		return
	}

	start := time.Now()
	res := h.dataset.Average(name)
	duration := time.Since(start)

	// Names absent from the dataset share one series so clients cannot grow
	// the per-country metrics.
	key := metrics.NoMatchKey
	if res.Outcome == dataset.OutcomeMatched {
		key = name
	}

	h.emitEvent(metrics.MetricEvent{
		Type:      metrics.EventQueryReceived,
		Timestamp: start,
		Country:   key,
	})

	h.logger.Debug("Computed average",
		slog.String("country", name),
		slog.String("outcome", res.Outcome.String()),
		slog.Int("matches", res.Count),
		slog.Duration("duration", duration))

	wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
	wrapped.Header().Set("Content-Type", "text/plain; charset=utf-8")
	wrapped.WriteHeader(http.StatusOK)
	if _, err := wrapped.Write([]byte(res.String())); err != nil {
		h.logger.Warn("Failed to write response",
			slog.String("country", name),
			slog.Any("err", err))
	}

	h.emitEvent(metrics.MetricEvent{
		Type:       metrics.EventQueryCompleted,
		Timestamp:  time.Now(),
		Country:    key,
		Outcome:    res.Outcome.String(),
		Matches:    res.Count,
		Duration:   duration,
		StatusCode: wrapped.statusCode,
	})
}

func (h *ClimateHandler) emitEvent(event metrics.MetricEvent) {
	if h.metricsCollector == nil {
		return
	}

	select {
	case h.metricsCollector.EventChannel() <- event:
	default:
	}
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// NewClimateHandler builds the query handler. collector may be nil to
// disable metrics; next defaults to http.NotFoundHandler().
func NewClimateHandler(logger *slog.Logger, ds *dataset.Dataset, collector *metrics.Collector, next http.Handler) *ClimateHandler {
	if next == nil {
		next = http.NotFoundHandler()
	}

	return &ClimateHandler{
		logger:           logger,
		dataset:          ds,
		metricsCollector: collector,
		next:             next,
	}
}
