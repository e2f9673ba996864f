package reset_booking_policy

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/service/policy/models"
)

type PolicyService interface {
	Reset(ctx context.Context, req *models.ResetPolicyRequest) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
