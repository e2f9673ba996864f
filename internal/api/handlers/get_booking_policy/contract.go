package get_booking_policy

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/service/policy/models"
)

type PolicyService interface {
	Get(ctx context.Context, req *models.GetPolicyRequest) (*models.PolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
