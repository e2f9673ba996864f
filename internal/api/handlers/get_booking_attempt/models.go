package get_booking_attempt

import (
	"time"

	getBookingAttempt "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_booking_attempt"
)

// BookingAttemptResponse HTTP response model
type BookingAttemptResponse struct {
	AuthorizationID    string   `json:"authorizationId"`
	State              string   `json:"state"`
	AllowedTransitions []string `json:"allowedTransitions"`
	Terminal           bool     `json:"terminal"`
	Expired            bool     `json:"expired"`
	BusinessID         int64    `json:"businessId"`
	ServiceID          int64    `json:"serviceId"`
	StaffID            int64    `json:"staffId"`
	StartAt            string   `json:"startAt"`
	EndAt              string   `json:"endAt"`
	DepositAmount      int64    `json:"depositAmount"`
	ExpiresAt          string   `json:"expiresAt"`
	BookingID          *int64   `json:"bookingId,omitempty"`
	FailureReason      string   `json:"failureReason,omitempty"`
	UpdatedAt          string   `json:"updatedAt"`
}

func FromUseCaseResponse(resp *getBookingAttempt.Response) *BookingAttemptResponse {
	transitions := resp.AllowedTransitions
	if transitions == nil {
		transitions = []string{}
	}
	return &BookingAttemptResponse{
		AuthorizationID:    resp.AuthorizationID,
		State:              resp.State,
		AllowedTransitions: transitions,
		Terminal:           resp.Terminal,
		Expired:            resp.Expired,
		BusinessID:         resp.BusinessID,
		ServiceID:          resp.ServiceID,
		StaffID:            resp.StaffID,
		StartAt:            resp.StartAt.UTC().Format(time.RFC3339),
		EndAt:              resp.EndAt.UTC().Format(time.RFC3339),
		DepositAmount:      resp.DepositAmount,
		ExpiresAt:          resp.ExpiresAt.UTC().Format(time.RFC3339),
		BookingID:          resp.BookingID,
		FailureReason:      resp.FailureReason,
		UpdatedAt:          resp.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
