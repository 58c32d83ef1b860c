// SPDX-FileCopyrightText: 2025 Norvik Labs
// SPDX-License-Identifier: Apache-2.0

// Package metrics records Prometheus metrics for requests flowing through
// the middleware stack: totals, latency, in-flight count, response sizes,
// and error-dispatch outcomes by class.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/norvik-labs/httptrail/capture"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httptrail_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httptrail_request_duration_seconds",
			Help:    "HTTP request handling duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	requestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "httptrail_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	responseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httptrail_response_size_bytes",
			Help:    "HTTP response body size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	dispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httptrail_error_dispatch_total",
			Help: "Total number of errors routed through dispatch, by class and final status",
		},
		[]string{"class", "status"},
	)
)

// Middleware records request metrics around the next handler.  The path
// label is the raw URL path; mount this middleware behind routing that
// keeps path cardinality bounded, or wrap it with your own normalization.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestsInFlight.Inc()
		defer requestsInFlight.Dec()

		cw := capture.New(w)
		start := time.Now()
		next.ServeHTTP(cw, r)
		elapsed := time.Since(start)

		statusCode := cw.Status()
		if statusCode == 0 {
			statusCode = http.StatusOK
		}

		status := strconv.Itoa(statusCode)
		requestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		requestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(elapsed.Seconds())
		responseSize.WithLabelValues(r.Method, r.URL.Path).Observe(float64(cw.BytesWritten()))
	})
}

// DispatchObserver returns an observer for dispatch.Builder.Observe that
// counts dispatched errors by class and final status.
func DispatchObserver() func(class string, statusCode int) {
	return func(class string, statusCode int) {
		dispatchTotal.WithLabelValues(class, strconv.Itoa(statusCode)).Inc()
	}
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
