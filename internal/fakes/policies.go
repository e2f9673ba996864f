package fakes

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Policies отдает одну политику для всех услуг, по умолчанию DefaultBookingPolicy
type Policies struct {
	Policy *domain.BookingPolicy
}

func (p *Policies) GetEffective(_ context.Context, businessID int64, _ *int64) (*domain.BookingPolicy, error) {
	if p.Policy != nil {
		return p.Policy, nil
	}
	return domain.DefaultBookingPolicy(businessID), nil
}
