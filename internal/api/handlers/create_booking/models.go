package create_booking

import (
	"errors"
	"time"

	createBooking "github.com/m04kA/SMC-SalonBookingService/internal/usecase/create_booking"
)

var errInvalidStartAt = errors.New("startAt must be RFC3339")

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BusinessID             int64    `json:"businessId"`
	ServiceID              int64    `json:"serviceId"`
	StaffID                *int64   `json:"staffId,omitempty"` // без мастера = любой свободный
	StartAt                string   `json:"startAt"`           // RFC3339
	Customer               Customer `json:"customer"`
	Notes                  *string  `json:"notes,omitempty"`
	PaymentAuthorizationID *string  `json:"paymentAuthorizationId,omitempty"`
}

// Customer контакты клиента
type Customer struct {
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Phone *string `json:"phone,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID                     int64    `json:"id"`
	BusinessID             int64    `json:"businessId"`
	ServiceID              int64    `json:"serviceId"`
	StaffID                int64    `json:"staffId"`
	Customer               Customer `json:"customer"`
	StartAt                string   `json:"startAt"`
	EndAt                  string   `json:"endAt"`
	Status                 string   `json:"status"`
	PaymentStatus          string   `json:"paymentStatus"`
	PaymentAuthorizationID *string  `json:"paymentAuthorizationId,omitempty"`
	CapturedAmount         int64    `json:"capturedAmount"`
	RiskScore              int      `json:"riskScore"`
	RiskFactors            []string `json:"riskFactors"`
	Notes                  *string  `json:"notes,omitempty"`
	CreatedAt              string   `json:"createdAt"`
	UpdatedAt              string   `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, errInvalidStartAt
	}

	return &createBooking.Request{
		BusinessID: r.BusinessID,
		ServiceID:  r.ServiceID,
		StaffID:    r.StaffID,
		StartAt:    startAt,
		Customer: createBooking.Customer{
			Email: r.Customer.Email,
			Name:  r.Customer.Name,
			Phone: r.Customer.Phone,
		},
		Notes:                  r.Notes,
		PaymentAuthorizationID: r.PaymentAuthorizationID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	factors := resp.RiskFactors
	if factors == nil {
		factors = []string{}
	}
	return &BookingResponse{
		ID:         resp.ID,
		BusinessID: resp.BusinessID,
		ServiceID:  resp.ServiceID,
		StaffID:    resp.StaffID,
		Customer: Customer{
			Email: resp.CustomerEmail,
			Name:  resp.CustomerName,
			Phone: resp.CustomerPhone,
		},
		StartAt:                resp.StartAt.UTC().Format(time.RFC3339),
		EndAt:                  resp.EndAt.UTC().Format(time.RFC3339),
		Status:                 resp.Status,
		PaymentStatus:          resp.PaymentStatus,
		PaymentAuthorizationID: resp.PaymentAuthorizationID,
		CapturedAmount:         resp.CapturedAmount,
		RiskScore:              resp.RiskScore,
		RiskFactors:            factors,
		Notes:                  resp.Notes,
		CreatedAt:              resp.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:              resp.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
