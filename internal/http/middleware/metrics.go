// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file holds the Prometheus instrumentation for the dashboard API. The
// path label is the registered Gin route (e.g. /api/v1/tickets/:number), so
// cardinality stays bounded no matter what ticket numbers clients put in the
// URL; only unmatched requests fall back to the raw path. Scan-pipeline
// metrics live in the services package; this file covers HTTP traffic only.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	reqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// Latency omits the status label to keep histogram cardinality down.
	reqLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	reqInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// Bucket edges span a ticket-list page (a few KiB) up to a full
	// unpaged listing of a large collection.
	respSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_response_size_bytes",
			Help: "Size of HTTP responses in bytes.",
			Buckets: []float64{
				200, 500, 1 << 10, 2 << 10, 5 << 10,
				10 << 10, 25 << 10, 50 << 10,
				100 << 10, 250 << 10, 500 << 10,
				1 << 20, 2 << 20, 5 << 20,
			},
		},
		[]string{"method", "path"},
	)
)

func init() {
	prometheus.MustRegister(reqTotal, reqLatency, reqInflight, respSize)
}

// Metrics returns a middleware recording request count, latency, in-flight
// concurrency, and response size per request. Pair it with a /metrics route
// serving promhttp.Handler(). The response size observation is skipped when
// Gin reports -1 (nothing written).
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqInflight.Inc()
		defer reqInflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		reqTotal.WithLabelValues(method, path, status).Inc()
		reqLatency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		if size := c.Writer.Size(); size >= 0 {
			respSize.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
