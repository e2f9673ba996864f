package domain

// Default policy values
const (
	DefaultSlotGranularityMinutes = 15
	DefaultMinNoticeMinutes       = 60
	DefaultAdvanceBookingDays     = 0 // 0 = unlimited
	DefaultDepositThreshold       = 50
	DefaultDepositPercent         = 20
	DefaultPaymentWindowMinutes   = 15
)

// Business validation constants
const (
	MinSlotGranularityMinutes   = 5
	MaxSlotGranularityMinutes   = 120
	MaxMinNoticeMinutes         = 10080 // 1 week
	MaxAdvanceBookingDays       = 365
	MinPaymentWindowMinutes     = 1
	MaxPaymentWindowMinutes     = 120
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxCustomerNameLength       = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// OccupyingStatuses статусы, при которых бронирование занимает время мастера
var OccupyingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusInProgress,
}

// CancellableStatuses статусы, из которых бронирование можно отменить
var CancellableStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// ReleasedStatuses статусы, освобождающие время
var ReleasedStatuses = []BookingStatus{
	StatusCancelledByCustomer,
	StatusCancelledByBusiness,
	StatusNoShow,
}
