package attempt

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

type customerRecord struct {
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
}

type riskRecord struct {
	Score           int      `json:"score"`
	Factors         []string `json:"factors"`
	DepositRequired bool     `json:"deposit_required"`
	DepositAmount   int64    `json:"deposit_amount"`
	DepositReason   string   `json:"deposit_reason"`
}

// attemptRecord представление попытки в redis
type attemptRecord struct {
	ID              string         `json:"id"`
	AuthorizationID string         `json:"authorization_id"`
	BusinessID      int64          `json:"business_id"`
	ServiceID       int64          `json:"service_id"`
	StaffID         int64          `json:"staff_id"`
	StartAt         time.Time      `json:"start_at"`
	EndAt           time.Time      `json:"end_at"`
	Customer        customerRecord `json:"customer"`
	State           string         `json:"state"`
	Risk            riskRecord     `json:"risk"`
	DepositAmount   int64          `json:"deposit_amount"`
	ExpiresAt       time.Time      `json:"expires_at"`
	BookingID       *int64         `json:"booking_id,omitempty"`
	FailureReason   string         `json:"failure_reason,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func toRecord(a *domain.BookingAttempt) attemptRecord {
	return attemptRecord{
		ID:              a.ID,
		AuthorizationID: a.AuthorizationID,
		BusinessID:      a.BusinessID,
		ServiceID:       a.ServiceID,
		StaffID:         a.StaffID,
		StartAt:         a.StartAt,
		EndAt:           a.EndAt,
		Customer: customerRecord{
			Email: a.Customer.Email,
			Name:  a.Customer.Name,
			Phone: a.Customer.Phone,
		},
		State: string(a.State),
		Risk: riskRecord{
			Score:           a.Risk.Score,
			Factors:         a.Risk.Factors,
			DepositRequired: a.Risk.DepositRequired,
			DepositAmount:   a.Risk.DepositAmount,
			DepositReason:   a.Risk.DepositReason,
		},
		DepositAmount: a.DepositAmount,
		ExpiresAt:     a.ExpiresAt,
		BookingID:     a.BookingID,
		FailureReason: a.FailureReason,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func (r attemptRecord) toDomain() *domain.BookingAttempt {
	return &domain.BookingAttempt{
		ID:              r.ID,
		AuthorizationID: r.AuthorizationID,
		BusinessID:      r.BusinessID,
		ServiceID:       r.ServiceID,
		StaffID:         r.StaffID,
		StartAt:         r.StartAt,
		EndAt:           r.EndAt,
		Customer: domain.Customer{
			Email: r.Customer.Email,
			Name:  r.Customer.Name,
			Phone: r.Customer.Phone,
		},
		State: domain.AttemptState(r.State),
		Risk: domain.RiskAssessment{
			Score:           r.Risk.Score,
			Factors:         r.Risk.Factors,
			DepositRequired: r.Risk.DepositRequired,
			DepositAmount:   r.Risk.DepositAmount,
			DepositReason:   r.Risk.DepositReason,
		},
		DepositAmount: r.DepositAmount,
		ExpiresAt:     r.ExpiresAt,
		BookingID:     r.BookingID,
		FailureReason: r.FailureReason,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
