package handlers

import (
	"bufio"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qusim_http_requests_total",
		Help: "Total HTTP requests served, by method, path and status code.",
	}, []string{"method", "path", "code"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "qusim_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	gatesApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qusim_gates_applied_total",
		Help: "Gates applied across all simulations, by gate name.",
	}, []string{"gate"})

	measurementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qusim_measurements_total",
		Help: "Qubit measurements across all simulations, by outcome.",
	}, []string{"outcome"})
)

// statusRecorder captures the status code a handler writes
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// Hijack forwards to the wrapped writer so websocket upgrades work
// behind the middleware
func (rec *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rec.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}

	return hijacker.Hijack()
}

// MetricsMiddleware records request counts and latency for every route
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := metricPath(r.URL.Path)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// metricPath folds per-session URLs onto a single label value
func metricPath(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) >= 5 && parts[3] == "simulations" && parts[4] != "" {
		parts[4] = ":id"
		return strings.Join(parts, "/")
	}

	return path
}
