package create_payment_intent

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	if req.Customer != nil {
		email := domain.NormalizeEmail(req.Customer.Email)
		if email == "" || !strings.Contains(email, "@") {
			return fmt.Errorf("%w: customer.email is invalid", ErrInvalidInput)
		}
		if len(req.Customer.Name) > domain.MaxCustomerNameLength {
			return fmt.Errorf("%w: customer.name must not exceed %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
		}
	}

	return nil
}
