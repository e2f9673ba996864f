package get_business_bookings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type fakeService struct {
	resp *models.BookingListResponse
	err  error
	got  *models.ListBookingsRequest
}

func (f *fakeService) ListByBusiness(_ context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	f.got = req
	return f.resp, f.err
}

func get(svc BookingService, businessID, query string, withUser bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/businesses/"+businessID+"/bookings"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"businessId": businessID})
	if withUser {
		req = req.WithContext(middleware.WithUserID(req.Context(), 42))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_ParsesFilters(t *testing.T) {
	svc := &fakeService{resp: &models.BookingListResponse{Bookings: []models.BookingResponse{{ID: 1}, {ID: 2}}}}

	rec := get(svc, "1", "?date=2026-06-01&staffId=3&status=confirmed&includeInactive=true", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":2`)

	got := svc.got
	assert.Equal(t, int64(42), got.UserID)
	assert.Equal(t, int64(1), got.BusinessID)
	assert.Equal(t, int64(3), *got.StaffID)
	assert.Equal(t, "confirmed", *got.Status)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), *got.Date)
	assert.True(t, got.IncludeInactive)
}

func TestHandler_DefaultsToActive(t *testing.T) {
	svc := &fakeService{resp: &models.BookingListResponse{Bookings: []models.BookingResponse{}}}

	rec := get(svc, "1", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
	assert.False(t, svc.got.IncludeInactive)
	assert.Nil(t, svc.got.Date)
}

func TestHandler_BadParams(t *testing.T) {
	for _, q := range []string{"?date=01.06.2026", "?staffId=abc", "?includeInactive=maybe"} {
		svc := &fakeService{}
		assert.Equal(t, http.StatusBadRequest, get(svc, "1", q, true).Code, q)
		assert.Nil(t, svc.got)
	}
	assert.Equal(t, http.StatusBadRequest, get(&fakeService{}, "one", "", true).Code)
	assert.Equal(t, http.StatusUnauthorized, get(&fakeService{}, "1", "", false).Code)
}

func TestHandler_ServiceErrors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{bookings.ErrInvalidInput, http.StatusBadRequest},
		{bookings.ErrBusinessNotFound, http.StatusNotFound},
		{bookings.ErrAccessDenied, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, get(&fakeService{err: tt.err}, "1", "", true).Code, tt.err.Error())
	}
}
