package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	BusinessID             int64
	ServiceID              int64
	StaffID                *int64 // nil = любой свободный мастер
	StartAt                time.Time
	Customer               Customer
	Notes                  *string
	PaymentAuthorizationID *string // есть только на пути с депозитом
}

// Customer контакты клиента
type Customer struct {
	Email string
	Name  string
	Phone *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID                     int64
	BusinessID             int64
	ServiceID              int64
	StaffID                int64
	CustomerEmail          string
	CustomerName           string
	CustomerPhone          *string
	StartAt                time.Time
	EndAt                  time.Time
	Status                 string
	PaymentStatus          string
	PaymentAuthorizationID *string
	CapturedAmount         int64
	RiskScore              int
	RiskFactors            []string
	Notes                  *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func toResponse(b *domain.Booking) *Response {
	return &Response{
		ID:                     b.ID,
		BusinessID:             b.BusinessID,
		ServiceID:              b.ServiceID,
		StaffID:                b.StaffID,
		CustomerEmail:          b.Customer.Email,
		CustomerName:           b.Customer.Name,
		CustomerPhone:          b.Customer.Phone,
		StartAt:                b.StartAt,
		EndAt:                  b.EndAt,
		Status:                 string(b.Status),
		PaymentStatus:          string(b.Payment.Status),
		PaymentAuthorizationID: b.Payment.AuthorizationID,
		CapturedAmount:         b.Payment.CapturedAmount,
		RiskScore:              b.Risk.Score,
		RiskFactors:            b.Risk.Factors,
		Notes:                  b.Notes,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
	}
}
