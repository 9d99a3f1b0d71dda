package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"monochrome/internal/ui"
)

var (
	// MetricRequestsTotal counts API requests by route pattern and status
	MetricRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monochrome_http_requests_total",
		Help: "Total palette API requests by route and status",
	}, []string{"route", "status"})

	// MetricRequestDuration tracks handler latency
	MetricRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "monochrome_http_request_duration_seconds",
		Help:    "Palette API request duration in seconds",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"route"})

	// MetricAuthFailures counts rejected requests by reason
	MetricAuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monochrome_auth_failures_total",
		Help: "Requests rejected before reaching a handler, by reason",
	}, []string{"reason"})
)

// MetricsServer wraps the HTTP server for prometheus metrics
type MetricsServer struct {
	server *http.Server
}

// NewMetricsServer creates a new metrics server
func NewMetricsServer(addr string) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start begins serving metrics (non-blocking)
func (m *MetricsServer) Start() {
	go func() {
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			ui.LogStatus("error", "Metrics server error: "+err.Error())
		}
	}()
}

// Shutdown gracefully stops the metrics server
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return m.server.Shutdown(shutdownCtx)
}
