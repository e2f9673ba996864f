package cancel_booking

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancelledBy   string  `json:"cancelledBy"`
	Reason        *string `json:"reason,omitempty"`
	CustomerEmail *string `json:"customerEmail,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса.
// userID берется из заголовка, для отмены клиентом он не нужен.
func (r *CancelBookingRequest) ToServiceRequest(bookingID int64, userID *int64) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		BookingID:     bookingID,
		CancelledBy:   r.CancelledBy,
		Reason:        r.Reason,
		UserID:        userID,
		CustomerEmail: r.CustomerEmail,
	}
}
