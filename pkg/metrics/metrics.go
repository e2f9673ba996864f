package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics метрики HTTP слоя и движка бронирований.
// Все методы безопасны для nil-получателя.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	commits       *prometheus.CounterVec
	compensations *prometheus.CounterVec
	aborts        *prometheus.CounterVec
	slotsOffered  *prometheus.HistogramVec
}

func New(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "HTTP requests by route, method and status.",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency.",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_commits_total",
			Help:        "Booking commit attempts by outcome.",
			ConstLabels: labels,
		}, []string{"path", "result"}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payment_compensations_total",
			Help:        "Void/refund operations issued by the coordinator.",
			ConstLabels: labels,
		}, []string{"kind", "result"}),
		aborts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_attempts_aborted_total",
			Help:        "Booking attempts moved to aborted.",
			ConstLabels: labels,
		}, []string{"reason"}),
		slotsOffered: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "availability_slots_offered",
			Help:        "Number of start times returned per availability query.",
			ConstLabels: labels,
			Buckets:     []float64{0, 1, 5, 10, 20, 40, 80},
		}, []string{"mode"}),
	}

	if reg != nil {
		reg.MustRegister(m.httpRequests, m.httpDuration, m.commits, m.compensations, m.aborts, m.slotsOffered)
	}
	return m
}

func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// BookingCommit path: direct|deposit; result: booked|conflict|expired|capture_failed|incident|error
func (m *Metrics) BookingCommit(path, result string) {
	if m == nil {
		return
	}
	m.commits.WithLabelValues(path, result).Inc()
}

// Compensation kind: void|refund; result: ok|failed
func (m *Metrics) Compensation(kind string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.compensations.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) AttemptAborted(reason string) {
	if m == nil {
		return
	}
	m.aborts.WithLabelValues(reason).Inc()
}

// SlotsOffered mode: staff|any
func (m *Metrics) SlotsOffered(mode string, count int) {
	if m == nil {
		return
	}
	m.slotsOffered.WithLabelValues(mode).Observe(float64(count))
}
