package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestClient(t *testing.T) *Client {
	t.Helper()

	r := mux.NewRouter()
	r.HandleFunc("/internal/businesses/1/services/2", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":2,"business_id":1,"name":"Стрижка","duration_minutes":60,"price_cents":4500,"eligible_staff_ids":[10,11]}`))
	})
	r.HandleFunc("/internal/staff/10/availability", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"staff_id":10,"timezone":"UTC","buffer_minutes":15,"max_bookings_per_day":0,
			"working_days":[{"weekday":1,"is_working":true,"start":"09:00","end":"17:00","breaks":[{"start":"12:00","end":"13:00"}]},
			{"weekday":9,"is_working":true,"start":"09:00","end":"10:00"}]}`))
	})
	r.HandleFunc("/internal/businesses/1", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"name":"Salon","manager_ids":[100]}`))
	})
	r.HandleFunc("/internal/businesses/500", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, time.Second, nopLogger{})
}

func TestClient_GetService(t *testing.T) {
	c := newTestClient(t)

	t.Run("found", func(t *testing.T) {
		s, err := c.GetService(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.Equal(t, 60, s.DurationMinutes)
		assert.Equal(t, int64(4500), s.PriceCents)
		assert.Equal(t, []int64{10, 11}, s.EligibleStaffIDs)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := c.GetService(context.Background(), 1, 3)
		assert.ErrorIs(t, err, ErrServiceNotFound)
	})
}

func TestClient_GetStaffProfile(t *testing.T) {
	c := newTestClient(t)

	t.Run("maps working days by weekday", func(t *testing.T) {
		p, err := c.GetStaffProfile(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, 15, p.BufferMinutes)

		monday := p.Days[time.Monday]
		assert.True(t, monday.IsWorking)
		assert.Equal(t, types.TimeString("09:00"), monday.Start)
		require.Len(t, monday.Breaks, 1)
		assert.Equal(t, types.TimeString("12:00"), monday.Breaks[0].Start)

		assert.False(t, p.Days[time.Sunday].IsWorking)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := c.GetStaffProfile(context.Background(), 99)
		assert.ErrorIs(t, err, ErrStaffNotFound)
	})
}

func TestClient_GetBusiness(t *testing.T) {
	c := newTestClient(t)

	t.Run("managers", func(t *testing.T) {
		b, err := c.GetBusiness(context.Background(), 1)
		require.NoError(t, err)
		assert.True(t, b.IsManager(100))
		assert.False(t, b.IsManager(101))
	})

	t.Run("upstream failure", func(t *testing.T) {
		_, err := c.GetBusiness(context.Background(), 500)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("unreachable", func(t *testing.T) {
		dead := NewClient("http://127.0.0.1:1", 100*time.Millisecond, nopLogger{})
		_, err := dead.GetBusiness(context.Background(), 1)
		assert.ErrorIs(t, err, ErrInternal)
	})
}
