package create_booking

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	createBooking "github.com/m04kA/SMC-SalonBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type fakeUseCase struct {
	resp *createBooking.Response
	err  error
	got  *createBooking.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.got = req
	return f.resp, f.err
}

const validBody = `{
	"businessId": 1,
	"serviceId": 10,
	"staffId": 2,
	"startAt": "2026-06-01T10:00:00Z",
	"customer": {"email": "anna@example.com", "name": "Анна"},
	"paymentAuthorizationId": "pi_1"
}`

func post(uc CreateBookingUseCase, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_Created(t *testing.T) {
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &createBooking.Response{
		ID:            5,
		BusinessID:    1,
		ServiceID:     10,
		StaffID:       2,
		CustomerEmail: "anna@example.com",
		StartAt:       start,
		EndAt:         start.Add(time.Hour),
		Status:        "confirmed",
		PaymentStatus: "captured",
	}}

	rec := post(uc, validBody)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":5`)
	assert.Contains(t, rec.Body.String(), `"endAt":"2026-06-01T11:00:00Z"`)

	require.NotNil(t, uc.got)
	assert.Equal(t, start, uc.got.StartAt)
	assert.Equal(t, int64(2), *uc.got.StaffID)
	assert.Equal(t, "pi_1", *uc.got.PaymentAuthorizationID)
}

func TestHandler_BadRequest(t *testing.T) {
	for name, body := range map[string]string{
		"not json":      `{`,
		"unknown field": `{"userId": 1}`,
		"bad startAt":   `{"businessId":1,"serviceId":10,"startAt":"2026-06-01 10:00","customer":{"email":"a@b.c","name":"A"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			uc := &fakeUseCase{}
			rec := post(uc, body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: customer email is invalid", createBooking.ErrInvalidInput), http.StatusBadRequest},
		{createBooking.ErrSlotNoLongerAvailable, http.StatusConflict},
		{createBooking.ErrServiceNotFound, http.StatusNotFound},
		{createBooking.ErrInvalidServiceConfiguration, http.StatusUnprocessableEntity},
		{createBooking.ErrStaffNotEligible, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: first-time customer", createBooking.ErrDepositRequired), http.StatusPaymentRequired},
		{createBooking.ErrAuthorizationNotFound, http.StatusNotFound},
		{createBooking.ErrAuthorizationMismatch, http.StatusUnprocessableEntity},
		{createBooking.ErrPaymentAuthorizationExpired, http.StatusGone},
		{createBooking.ErrPaymentCaptureFailed, http.StatusPaymentRequired},
		{createBooking.ErrCommitInProgress, http.StatusConflict},
		{createBooking.ErrAttemptClosed, http.StatusConflict},
		{createBooking.ErrPostCapturePersistenceFailure, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := post(&fakeUseCase{err: tt.err}, validBody)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandler_IncidentMessageMentionsSupport(t *testing.T) {
	rec := post(&fakeUseCase{err: createBooking.ErrPostCapturePersistenceFailure}, validBody)
	assert.Contains(t, rec.Body.String(), "поддержку")
}
