package get_availability

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

	getAvailability "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_availability"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type fakeUseCase struct {
	resp *getAvailability.Response
	err  error
	got  *getAvailability.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailability.Request) (*getAvailability.Response, error) {
	f.got = req
	return f.resp, f.err
}

func serve(uc GetAvailabilityUseCase, url string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/businesses/{businessId}/services/{serviceId}/availability", NewHandler(uc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	return rec
}

func TestHandler_OrderedAvailability(t *testing.T) {
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &getAvailability.Response{
		Date:      date,
		ServiceID: 10,
		Slots: []getAvailability.Slot{
			{Local: "09:00", StaffIDs: []int64{1}},
			{Local: "10:15", StaffIDs: []int64{1, 2}},
			{Local: "14:00", StaffIDs: []int64{2}},
		},
	}}

	rec := serve(uc, "/businesses/1/services/10/availability?staffId=any&date=2026-06-01")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		`{"date":"2026-06-01","serviceId":10,"staffId":"any","availability":{"09:00":[1],"10:15":[1,2],"14:00":[2]}}`+"\n",
		rec.Body.String())
	require.NotNil(t, uc.got)
	assert.Nil(t, uc.got.StaffID)
	assert.Equal(t, date, uc.got.Date)
}

func TestHandler_StaffID(t *testing.T) {
	staffID := int64(3)
	uc := &fakeUseCase{resp: &getAvailability.Response{ServiceID: 10, StaffID: &staffID}}

	rec := serve(uc, "/businesses/1/services/10/availability?staffId=3&date=2026-06-01")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"date":"0001-01-01","serviceId":10,"staffId":"3","availability":{}}`, rec.Body.String())
	assert.Equal(t, int64(3), *uc.got.StaffID)
}

func TestHandler_BadInputIsEmpty(t *testing.T) {
	for _, url := range []string{
		"/businesses/1/services/10/availability?date=01.06.2026",
		"/businesses/1/services/10/availability",
		"/businesses/x/services/10/availability?date=2026-06-01",
		"/businesses/1/services/10/availability?staffId=-4&date=2026-06-01",
	} {
		t.Run(url, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := serve(uc, url)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `"availability":{}`)
			assert.Nil(t, uc.got, "use case is not called")
		})
	}
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{getAvailability.ErrServiceNotFound, http.StatusNotFound},
		{getAvailability.ErrInvalidServiceConfiguration, http.StatusUnprocessableEntity},
		{getAvailability.ErrInvalidInput, http.StatusOK},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, "/businesses/1/services/10/availability?date=2026-06-01")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
