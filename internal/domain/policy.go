package domain

import "time"

// DepositMode способ расчета суммы депозита
type DepositMode string

const (
	DepositModeFixed   DepositMode = "fixed"
	DepositModePercent DepositMode = "percent"
)

// BookingPolicy represents the booking rules of a business
// Supports hierarchical configuration:
// 1. Service-specific (business_id, service_id)
// 2. Business-wide (business_id, NULL)
// Defaults apply when neither level exists.
type BookingPolicy struct {
	ID                     int64
	BusinessID             int64
	ServiceID              *int64 // NULL = policy for all services
	SlotGranularityMinutes int
	MinNoticeMinutes       int
	AdvanceBookingDays     int // 0 = unlimited
	DepositThreshold       int // score at which a deposit becomes mandatory
	DepositMode            DepositMode
	DepositFixedAmount     int64 // minor units, used when DepositMode = fixed
	DepositPercent         int   // 1..100, used when DepositMode = percent
	PaymentWindowMinutes   int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// IsBusinessWide returns true if the policy applies to every service of the business
func (p *BookingPolicy) IsBusinessWide() bool {
	return p.ServiceID == nil
}

// IsServiceSpecific returns true if the policy overrides a single service
func (p *BookingPolicy) IsServiceSpecific() bool {
	return p.ServiceID != nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (p *BookingPolicy) HasAdvanceBookingLimit() bool {
	return p.AdvanceBookingDays > 0
}

func (p *BookingPolicy) Granularity() time.Duration {
	return time.Duration(p.SlotGranularityMinutes) * time.Minute
}

func (p *BookingPolicy) MinNotice() time.Duration {
	return time.Duration(p.MinNoticeMinutes) * time.Minute
}

func (p *BookingPolicy) PaymentWindow() time.Duration {
	return time.Duration(p.PaymentWindowMinutes) * time.Minute
}

// DefaultBookingPolicy политика, применяемая, если бизнес ничего не настроил
func DefaultBookingPolicy(businessID int64) *BookingPolicy {
	return &BookingPolicy{
		BusinessID:             businessID,
		SlotGranularityMinutes: DefaultSlotGranularityMinutes,
		MinNoticeMinutes:       DefaultMinNoticeMinutes,
		AdvanceBookingDays:     DefaultAdvanceBookingDays,
		DepositThreshold:       DefaultDepositThreshold,
		DepositMode:            DepositModePercent,
		DepositPercent:         DefaultDepositPercent,
		PaymentWindowMinutes:   DefaultPaymentWindowMinutes,
	}
}
