package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// requestsTotal counts API operations by outcome.
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "geotool_requests_total",
		Help: "Total number of API operations by operation and status",
	}, []string{"operation", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "geotool_request_duration_seconds",
		Help:    "Time taken to answer an API operation",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"operation"})

	polygonVertices = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "geotool_polygon_vertices",
		Help:    "Number of vertices in polygons submitted to point-in-polygon tests",
		Buckets: []float64{3, 4, 8, 16, 64, 256, 1024, 4096},
	})
)

func observe(operation string, start time.Time, status string) {
	requestsTotal.WithLabelValues(operation, status).Inc()
	requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
