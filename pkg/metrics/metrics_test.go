package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New("booking", reg)

	m.BookingCommit("deposit", "booked")
	m.BookingCommit("deposit", "booked")
	m.Compensation("refund", false)
	m.ObserveHTTP("POST", "/api/v1/bookings", 201, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.commits.WithLabelValues("deposit", "booked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compensations.WithLabelValues("refund", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/v1/bookings", "201")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.BookingCommit("direct", "booked")
		m.Compensation("void", true)
		m.AttemptAborted("expired")
		m.SlotsOffered("any", 3)
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	})
}
