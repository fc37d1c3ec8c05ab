package main

import (
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/climate-api/internal/handler"
	"github.com/angeloszaimis/climate-api/internal/healthcheck"
	"github.com/angeloszaimis/climate-api/internal/metrics"
	"github.com/angeloszaimis/climate-api/internal/middleware"
)

func setupRouter(log *slog.Logger, climateHandler *handler.ClimateHandler, health *healthcheck.Checker, metricsCollector *metrics.Collector, corsEnabled bool) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /api/climate/{"+handler.NameParam+"}", climateHandler)
	mux.Handle("GET /health", health)

	if metricsCollector != nil {
		mux.HandleFunc("GET /metrics", metricsCollector.Handler())
		mux.Handle("GET /metrics/prometheus", metricsCollector.Prometheus().Handler())
	}

	mws := []func(http.Handler) http.Handler{middleware.AccessLog(log)}
	if corsEnabled {
		mws = append(mws, middleware.CORS())
	}

	return middleware.Chain(mux, mws...)
}
