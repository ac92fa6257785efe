package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics набор prometheus-коллекторов сервиса
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	bookingsCreated *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	slotsGenerated  prometheus.Histogram

	dbQueryDuration *prometheus.HistogramVec
	dbOpenConns     prometheus.Gauge
	dbInUseConns    prometheus.Gauge
	dbIdleConns     prometheus.Gauge
	dbWaitCount     prometheus.Gauge
}

// New создает и регистрирует коллекторы в собственном registry
func New(serviceName string) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Booking creation attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_transitions_total",
			Help:        "Booking status transitions by from/to status and outcome",
			ConstLabels: constLabels,
		}, []string{"from", "to", "outcome"}),
		slotsGenerated: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "slots_generated",
			Help:        "Number of slots returned per availability query",
			ConstLabels: constLabels,
			Buckets:     []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency by operation",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"operation", "status"}),
		dbOpenConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_open_connections", Help: "Open connections", ConstLabels: constLabels,
		}),
		dbInUseConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_in_use_connections", Help: "Connections in use", ConstLabels: constLabels,
		}),
		dbIdleConns: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_idle_connections", Help: "Idle connections", ConstLabels: constLabels,
		}),
		dbWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "db_wait_count", Help: "Total connections waited for", ConstLabels: constLabels,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.bookingsCreated,
		m.transitions,
		m.slotsGenerated,
		m.dbQueryDuration,
		m.dbOpenConns,
		m.dbInUseConns,
		m.dbIdleConns,
		m.dbWaitCount,
	)

	return m
}

// Handler HTTP-обработчик для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry возвращает registry (для тестов и дополнительных коллекторов)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// BookingCreated outcome: created, slot_unavailable, out_of_availability, conflict, error
func (m *Metrics) BookingCreated(outcome string) {
	m.bookingsCreated.WithLabelValues(outcome).Inc()
}

// Transition outcome: ok, rejected, error
func (m *Metrics) Transition(from, to, outcome string) {
	m.transitions.WithLabelValues(from, to, outcome).Inc()
}

func (m *Metrics) SlotsGenerated(count int) {
	m.slotsGenerated.Observe(float64(count))
}

func (m *Metrics) ObserveDBQuery(operation string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.dbQueryDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64) {
	m.dbOpenConns.Set(float64(open))
	m.dbInUseConns.Set(float64(inUse))
	m.dbIdleConns.Set(float64(idle))
	m.dbWaitCount.Set(float64(waitCount))
}
