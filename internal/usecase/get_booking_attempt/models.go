package get_booking_attempt

import "time"

// Response текущее состояние попытки и допустимые следующие состояния
type Response struct {
	AuthorizationID    string
	State              string
	AllowedTransitions []string
	Terminal           bool
	Expired            bool // окно оплаты прошло, а попытка еще ждет оплаты
	BusinessID         int64
	ServiceID          int64
	StaffID            int64
	StartAt            time.Time
	EndAt              time.Time
	DepositAmount      int64
	ExpiresAt          time.Time
	BookingID          *int64
	FailureReason      string
	UpdatedAt          time.Time
}
