// Package metrics exposes Prometheus instrumentation for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "billable_http_request_duration_seconds",
		Help:    "HTTP request latency by method and status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "code"})

	InvoicesGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "billable_invoices_generated_total",
		Help: "Invoices created through the generator, by initial status.",
	}, []string{"status"})

	InvoicesPaid = promauto.NewCounter(prometheus.CounterOpts{
		Name: "billable_invoices_paid_total",
		Help: "Invoices settled via webhook or manual transition.",
	})
)

// Middleware records request durations and status codes.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		start := time.Now()
		next.ServeHTTP(ww, r)

		requestDuration.
			WithLabelValues(r.Method, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}
