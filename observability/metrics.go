// Package observability exposes prometheus collectors and a cheap in-process
// snapshot of the same counters.
package observability

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "justus"

// Snapshot aggregates the counters for logs and the health endpoint.
type Snapshot struct {
	Published   uint64 `json:"published"`
	Dropped     uint64 `json:"dropped"`
	RateLimited uint64 `json:"rate_limited"`
	Connections int64  `json:"connections"`
	AllocMemMb  uint64 `json:"alloc_mem_mb"`
	NumGC       uint32 `json:"num_gc"`
	Goroutines  int    `json:"goroutines"`
}

// Metrics is safe for concurrent use. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	connections prometheus.Gauge
	users       prometheus.Gauge
	topics      prometheus.Gauge
	published   *prometheus.CounterVec
	dropped     prometheus.Counter
	rateLimited prometheus.Counter
	operations  *prometheus.CounterVec
	httpLatency *prometheus.HistogramVec

	publishedTotal   atomic.Uint64
	droppedTotal     atomic.Uint64
	rateLimitedTotal atomic.Uint64
	connectionsNow   atomic.Int64
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "connections_active",
			Help: "Live persistent connections.",
		}),
		users: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "users_connected",
			Help: "Identities with at least one live subscription.",
		}),
		topics: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "topics_active",
			Help: "Topics with at least one subscriber.",
		}),
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_published_total",
			Help: "Deliveries handed to connection sinks, by topic kind.",
		}, []string{"kind"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_dropped_total",
			Help: "Deliveries dropped because a connection buffer was full.",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "frames_rate_limited_total",
			Help: "Inbound frames rejected by the per identity rate limit.",
		}),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "message_operations_total",
			Help: "Message state transitions applied, by operation.",
		}, []string{"operation"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "Request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.connections, m.users, m.topics,
		m.published, m.dropped, m.rateLimited,
		m.operations, m.httpLatency,
	)
	return m
}

// Handler serves the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) IncPublished(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.published.WithLabelValues(kind).Add(float64(n))
	m.publishedTotal.Add(uint64(n))
}

func (m *Metrics) IncDropped() {
	if m == nil {
		return
	}
	m.dropped.Inc()
	m.droppedTotal.Add(1)
}

func (m *Metrics) IncRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
	m.rateLimitedTotal.Add(1)
}

func (m *Metrics) IncOperation(operation string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.operations.WithLabelValues(operation).Add(float64(n))
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpLatency.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func (m *Metrics) SetHubStats(connections, users, topics int) {
	if m == nil {
		return
	}
	m.connections.Set(float64(connections))
	m.users.Set(float64(users))
	m.topics.Set(float64(topics))
	m.connectionsNow.Store(int64(connections))
}

func (m *Metrics) Snapshot() Snapshot {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	s := Snapshot{
		AllocMemMb: mem.Alloc / 1024 / 1024,
		NumGC:      mem.NumGC,
		Goroutines: runtime.NumGoroutine(),
	}
	if m != nil {
		s.Published = m.publishedTotal.Load()
		s.Dropped = m.droppedTotal.Load()
		s.RateLimited = m.rateLimitedTotal.Load()
		s.Connections = m.connectionsNow.Load()
	}
	return s
}
