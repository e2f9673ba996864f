package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidCancelledBy возвращается при неизвестном инициаторе отмены
	ErrInvalidCancelledBy = errors.New("cancelledBy must be customer or business")
)

// Инициатор отмены
const (
	CancelledByCustomer = "customer"
	CancelledByBusiness = "business"
)

// Request модели

// GetBookingRequest запрос на получение бронирования.
// Доступ есть у клиента (по email) и у менеджера бизнеса.
type GetBookingRequest struct {
	BookingID     int64
	UserID        *int64
	CustomerEmail *string
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	BookingID     int64
	CancelledBy   string
	Reason        *string
	UserID        *int64  // менеджер, для cancelledBy=business
	CustomerEmail *string // клиент, для cancelledBy=customer
}

// ListBookingsRequest запрос на получение бронирований бизнеса
type ListBookingsRequest struct {
	UserID          int64
	BusinessID      int64
	Date            *time.Time // день в часовом поясе бизнеса
	StaffID         *int64
	Status          *string
	IncludeInactive bool
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                     int64      `json:"id"`
	BusinessID             int64      `json:"businessId"`
	ServiceID              int64      `json:"serviceId"`
	StaffID                int64      `json:"staffId"`
	CustomerEmail          string     `json:"customerEmail"`
	CustomerName           string     `json:"customerName"`
	CustomerPhone          *string    `json:"customerPhone,omitempty"`
	StartAt                time.Time  `json:"startAt"`
	EndAt                  time.Time  `json:"endAt"`
	Status                 string     `json:"status"`
	PaymentStatus          string     `json:"paymentStatus"`
	PaymentAuthorizationID *string    `json:"paymentAuthorizationId,omitempty"`
	CapturedAmount         int64      `json:"capturedAmount"`
	RiskScore              int        `json:"riskScore"`
	Notes                  *string    `json:"notes,omitempty"`
	CancellationReason     *string    `json:"cancellationReason,omitempty"`
	CancelledAt            *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
	UpdatedAt              time.Time  `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
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
		Notes:                  b.Notes,
		CancellationReason:     b.CancellationReason,
		CancelledAt:            b.CancelledAt,
		CreatedAt:              b.CreatedAt,
		UpdatedAt:              b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		if r := FromDomainBooking(b); r != nil {
			resp.Bookings = append(resp.Bookings, *r)
		}
	}
	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
