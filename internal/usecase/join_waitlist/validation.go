package join_waitlist

import (
	"fmt"
	"strings"
)

const maxNameLength = 200

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.PreferredStart.Validate(); err != nil {
		return fmt.Errorf("%w: preferred start: %v", ErrInvalidInput, err)
	}
	if err := req.PreferredEnd.Validate(); err != nil {
		return fmt.Errorf("%w: preferred end: %v", ErrInvalidInput, err)
	}
	if !req.PreferredStart.IsBefore(req.PreferredEnd) {
		return fmt.Errorf("%w: preferred range start must be before end", ErrInvalidInput)
	}

	email := strings.TrimSpace(req.Customer.Email)
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("%w: customer email is invalid", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.Customer.Name)
	if name == "" {
		return fmt.Errorf("%w: customer name is required", ErrInvalidInput)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: customer name must not exceed %d characters", ErrInvalidInput, maxNameLength)
	}

	return nil
}
