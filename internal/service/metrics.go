package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MetricPalettesTotal counts palettes written by what triggered them
	MetricPalettesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monochrome_palettes_total",
		Help: "Palettes generated and saved, by source",
	}, []string{"source"})

	// MetricSamplingAttempts tracks rejection sampling draws per base color
	MetricSamplingAttempts = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "monochrome_sampling_attempts",
		Help:    "Draws needed to accept a random base color",
		Buckets: []float64{1, 2, 3, 5, 8, 13},
	})

	// MetricStoreErrors counts repository failures by operation
	MetricStoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "monochrome_store_errors_total",
		Help: "Palette store errors by operation",
	}, []string{"op"})
)
