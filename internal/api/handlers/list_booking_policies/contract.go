package list_booking_policies

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/service/policy/models"
)

type PolicyService interface {
	List(ctx context.Context, req *models.ListPoliciesRequest) (*models.PolicyListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
