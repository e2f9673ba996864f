package update_booking_policy

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/service/policy/models"
)

// UpdateBookingPolicyRequest HTTP request model
// Все поля опциональны, serviceId не указан = политика уровня бизнеса
type UpdateBookingPolicyRequest struct {
	ServiceID              *int64  `json:"serviceId,omitempty"`
	SlotGranularityMinutes *int    `json:"slotGranularityMinutes,omitempty"`
	MinNoticeMinutes       *int    `json:"minNoticeMinutes,omitempty"`
	AdvanceBookingDays     *int    `json:"advanceBookingDays,omitempty"`
	DepositThreshold       *int    `json:"depositThreshold,omitempty"`
	DepositMode            *string `json:"depositMode,omitempty"`
	DepositFixedAmount     *int64  `json:"depositFixedAmount,omitempty"`
	DepositPercent         *int    `json:"depositPercent,omitempty"`
	PaymentWindowMinutes   *int    `json:"paymentWindowMinutes,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateBookingPolicyRequest) ToServiceRequest(businessID, userID int64) *models.UpdatePolicyRequest {
	return &models.UpdatePolicyRequest{
		UserID:                 userID,
		BusinessID:             businessID,
		ServiceID:              r.ServiceID,
		SlotGranularityMinutes: r.SlotGranularityMinutes,
		MinNoticeMinutes:       r.MinNoticeMinutes,
		AdvanceBookingDays:     r.AdvanceBookingDays,
		DepositThreshold:       r.DepositThreshold,
		DepositMode:            r.DepositMode,
		DepositFixedAmount:     r.DepositFixedAmount,
		DepositPercent:         r.DepositPercent,
		PaymentWindowMinutes:   r.PaymentWindowMinutes,
	}
}
