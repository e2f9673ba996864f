package reset_booking_policy

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/policy"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/policy/models"
	"github.com/m04kA/SMC-SalonBookingService/pkg/logger"
)

type fakeService struct {
	resp *models.PolicyResponse
	err  error
	got  *models.ResetPolicyRequest
}

func (f *fakeService) Reset(_ context.Context, req *models.ResetPolicyRequest) (*models.PolicyResponse, error) {
	f.got = req
	return f.resp, f.err
}

func del(svc PolicyService, businessID, query string, withUser bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/businesses/"+businessID+"/booking-policy"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"businessId": businessID})
	if withUser {
		req = req.WithContext(middleware.WithUserID(req.Context(), 100))
	}
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandler_ResetServiceLevel(t *testing.T) {
	svc := &fakeService{resp: &models.PolicyResponse{BusinessID: 1, Level: models.LevelBusiness}}

	rec := del(svc, "1", "?serviceId=5", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"level":"business"`)
	require.NotNil(t, svc.got.ServiceID)
	assert.Equal(t, int64(5), *svc.got.ServiceID)
	assert.Equal(t, int64(100), svc.got.UserID)
}

func TestHandler_Errors(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, del(&fakeService{}, "x", "", true).Code)
	assert.Equal(t, http.StatusBadRequest, del(&fakeService{}, "1", "?serviceId=x", true).Code)
	assert.Equal(t, http.StatusUnauthorized, del(&fakeService{}, "1", "", false).Code)
	assert.Equal(t, http.StatusNotFound, del(&fakeService{err: policy.ErrBusinessNotFound}, "1", "", true).Code)
	assert.Equal(t, http.StatusNotFound, del(&fakeService{err: policy.ErrPolicyNotFound}, "1", "", true).Code)
	assert.Equal(t, http.StatusForbidden, del(&fakeService{err: policy.ErrAccessDenied}, "1", "", true).Code)
	assert.Equal(t, http.StatusInternalServerError, del(&fakeService{err: errors.New("boom")}, "1", "", true).Code)
}
