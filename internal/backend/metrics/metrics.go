// Package metrics holds the Prometheus collectors of the service and the
// echo middleware feeding the HTTP metrics.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adscan_http_requests_total",
			Help: "Total number of HTTP requests served.",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adscan_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path", "status"},
	)

	modelCallCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adscan_model_calls_total",
			Help: "Vision model calls by outcome.",
		},
		[]string{"status"},
	)

	modelCallDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "adscan_model_call_duration_seconds",
			Help:    "Vision model call latency in seconds.",
			Buckets: []float64{0.25, 0.5, 1, 2, 3, 5, 7.5, 10, 15, 20, 30, 60},
		},
	)

	imageCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adscan_images_processed_total",
			Help: "Uploaded images processed by outcome.",
		},
		[]string{"status"},
	)

	entryCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "adscan_entries_extracted_total",
			Help: "Entries extracted across all images.",
		},
	)
)

// MustRegister registers all collectors with the default registry. Call it
// once at startup.
func MustRegister() {
	prometheus.MustRegister(
		requestCounter,
		requestDuration,
		modelCallCounter,
		modelCallDuration,
		imageCounter,
		entryCounter,
	)
}

// Middleware records request counts and latency per route. The registered
// route path is used as label so ids do not blow up the cardinality.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var httpError *echo.HTTPError
				if errors.As(err, &httpError) {
					status = httpError.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			elapsed := time.Since(start).Seconds()
			method := c.Request().Method
			path := c.Path()
			statusLabel := strconv.Itoa(status)

			requestCounter.WithLabelValues(method, path, statusLabel).Inc()
			requestDuration.WithLabelValues(method, path, statusLabel).Observe(elapsed)

			return err
		}
	}
}

// RecordModelCall records one vision model call and its latency.
func RecordModelCall(ok bool, duration time.Duration) {
	modelCallCounter.WithLabelValues(outcomeLabel(ok)).Inc()
	modelCallDuration.Observe(duration.Seconds())
}

// RecordImage records the outcome of one processed image.
func RecordImage(ok bool) {
	imageCounter.WithLabelValues(outcomeLabel(ok)).Inc()
}

// RecordEntries adds n extracted entries to the running total.
func RecordEntries(n int) {
	entryCounter.Add(float64(n))
}

func outcomeLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}
