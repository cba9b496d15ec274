package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dogfarm",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Requests HTTP por método, ruta y status.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dogfarm",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duración de requests HTTP.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// Middleware instrumenta cada request con contador y duración.
// Usa el route pattern de chi para no explotar la cardinalidad con IDs.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(ww.Status())).Inc()
		requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler expone el endpoint /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
