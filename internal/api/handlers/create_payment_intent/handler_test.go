package create_payment_intent

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	createPaymentIntent "github.com/m04kA/SMC-SalonBookingService/internal/usecase/create_payment_intent"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
	"github.com/m04kA/SMC-SalonBookingService/pkg/ptr"
)

type fakeUseCase struct {
	resp *createPaymentIntent.Response
	err  error
	got  *createPaymentIntent.Request
}

func (f *fakeUseCase) Execute(_ context.Context, req *createPaymentIntent.Request) (*createPaymentIntent.Response, error) {
	f.got = req
	return f.resp, f.err
}

const body = `{"businessId":1,"serviceId":10,"startAt":"2026-06-01T10:00:00Z"}`

func post(uc CreatePaymentIntentUseCase, payload string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payment-intents", strings.NewReader(payload))
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_DepositRequired(t *testing.T) {
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	expires := start.Add(-time.Hour)
	uc := &fakeUseCase{resp: &createPaymentIntent.Response{
		AuthorizationID: ptr.Ptr("pi_1"),
		ClientSecret:    ptr.Ptr("pi_1_secret"),
		DepositRequired: true,
		DepositAmount:   1200,
		DepositReason:   "first-time customer",
		RiskScore:       40,
		RiskFactors:     []string{"new_customer"},
		StaffID:         2,
		StartAt:         start,
		EndAt:           start.Add(time.Hour),
		ExpiresAt:       &expires,
	}}

	rec := post(uc, body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"depositRequired":true`)
	assert.Contains(t, rec.Body.String(), `"authorizationId":"pi_1"`)
	assert.Contains(t, rec.Body.String(), `"expiresAt":"2026-06-01T09:00:00Z"`)
	assert.Nil(t, uc.got.Customer)
	assert.Nil(t, uc.got.StaffID)
}

func TestHandler_NoDeposit(t *testing.T) {
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &createPaymentIntent.Response{StaffID: 1, StartAt: start, EndAt: start.Add(time.Hour)}}

	rec := post(uc, `{"businessId":1,"serviceId":10,"startAt":"2026-06-01T10:00:00Z","customer":{"email":"a@b.c","name":"A"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "authorizationId")
	assert.Contains(t, rec.Body.String(), `"riskFactors":[]`)
	require.NotNil(t, uc.got.Customer)
	assert.Equal(t, "a@b.c", uc.got.Customer.Email)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{createPaymentIntent.ErrInvalidInput, http.StatusBadRequest},
		{createPaymentIntent.ErrServiceNotFound, http.StatusNotFound},
		{createPaymentIntent.ErrInvalidServiceConfiguration, http.StatusUnprocessableEntity},
		{createPaymentIntent.ErrStaffNotEligible, http.StatusUnprocessableEntity},
		{createPaymentIntent.ErrSlotNotAvailable, http.StatusConflict},
		{createPaymentIntent.ErrPaymentFailed, http.StatusPaymentRequired},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, post(&fakeUseCase{err: tt.err}, body).Code)
		})
	}

	assert.Equal(t, http.StatusBadRequest, post(&fakeUseCase{}, `{"startAt":"tomorrow"}`).Code)
}
