// Package metrics provides Prometheus instrumentation: standard HTTP
// request metrics plus counters for the order and notification pipelines.
//
// Wire it up once when building the server:
//
//	m := metrics.New()
//	r.Use(m.Middleware())
//	r.Get("/metrics", "metrics", m.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "savannah"

// Metrics owns a registry and every collector the service records.
type Metrics struct {
	registry *prometheus.Registry

	// RequestDuration tracks HTTP latency by method, path and status.
	RequestDuration *prometheus.HistogramVec
	// RequestTotal counts all HTTP requests.
	RequestTotal *prometheus.CounterVec
	// RequestInFlight tracks requests currently being served.
	RequestInFlight prometheus.Gauge

	// OrdersCreated counts accepted orders.
	OrdersCreated prometheus.Counter
	// OrderStatusChanges counts status updates by resulting status.
	OrderStatusChanges *prometheus.CounterVec
	// SMSSends counts notification gateway calls by outcome.
	SMSSends *prometheus.CounterVec
	// QueueJobs counts processed queue jobs by outcome.
	QueueJobs *prometheus.CounterVec
}

// New builds a Metrics with its own registry, including Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		RequestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		RequestInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		}),

		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "created_total",
			Help:      "Total orders accepted.",
		}),
		OrderStatusChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "orders",
				Name:      "status_changes_total",
				Help:      "Total order status updates.",
			},
			[]string{"status"},
		),
		SMSSends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sms",
				Name:      "sends_total",
				Help:      "Total SMS gateway calls.",
			},
			[]string{"outcome"}, // "sent" | "failed"
		),
		QueueJobs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "queue",
				Name:      "jobs_processed_total",
				Help:      "Total queue jobs processed.",
			},
			[]string{"status"}, // "success" | "failed"
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestDuration,
		m.RequestTotal,
		m.RequestInFlight,
		m.OrdersCreated,
		m.OrderStatusChanges,
		m.SMSSends,
		m.QueueJobs,
	)
	return m
}

// MustRegister adds extra collectors to the registry.
func (m *Metrics) MustRegister(c ...prometheus.Collector) {
	m.registry.MustRegister(c...)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records duration, count and in-flight gauge for every request.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			path := r.URL.Path

			m.RequestInFlight.Inc()
			defer m.RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			status := strconv.Itoa(rr.status)
			m.RequestDuration.WithLabelValues(r.Method, path, status).
				Observe(time.Since(start).Seconds())
			m.RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// Handler exposes the Prometheus scrape endpoint. Mount on GET /metrics.
func (m *Metrics) Handler() http.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return h.ServeHTTP
}
