// Package obs holds the Prometheus metrics exported at /metrics.
package obs

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	authzDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_decisions_total",
			Help: "Permission gate outcomes.",
		},
		[]string{"decision"},
	)

	auditRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_records_total",
			Help: "Audit trail writes by result.",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpInFlight, httpRequestsTotal, httpRequestDuration, authzDecisions, auditRecords)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument records RPS, latency and in-flight requests. Paths are the
// route templates so ids do not blow up label cardinality.
func Instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		httpInFlight.Inc()
		start := time.Now()
		// A panicking handler still releases the gauge; its status is counted as 500.
		defer func() {
			httpInFlight.Dec()
			rec := recover()
			path := c.FullPath()
			if path == "" {
				path = "unmatched"
			}
			status := strconv.Itoa(c.Writer.Status())
			if rec != nil {
				status = strconv.Itoa(http.StatusInternalServerError)
			}
			httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
			httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
			if rec != nil {
				panic(rec)
			}
		}()

		c.Next()
	}
}

func ObserveDecision(decision string) {
	authzDecisions.WithLabelValues(decision).Inc()
}

func ObserveAuditRecord(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	auditRecords.WithLabelValues(result).Inc()
}
