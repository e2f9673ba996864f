package domain

import (
	"time"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusInProgress          BookingStatus = "in_progress"
	StatusCompleted           BookingStatus = "completed"
	StatusCancelledByCustomer BookingStatus = "cancelled_by_customer"
	StatusCancelledByBusiness BookingStatus = "cancelled_by_business"
	StatusNoShow              BookingStatus = "no_show"
)

// Occupies returns true if a booking in this status blocks its time range
func (s BookingStatus) Occupies() bool {
	for _, st := range OccupyingStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsValid checks the status against the known set
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted,
		StatusCancelledByCustomer, StatusCancelledByBusiness, StatusNoShow:
		return true
	}
	return false
}

// PaymentStatus статус депозита по бронированию
type PaymentStatus string

const (
	PaymentNotRequired PaymentStatus = "not_required"
	PaymentCaptured    PaymentStatus = "captured"
	PaymentRefunded    PaymentStatus = "refunded"
)

// Payment represents the deposit state attached to a booking
type Payment struct {
	Status          PaymentStatus
	AuthorizationID *string
	CapturedAmount  int64 // minor units
}

// Booking represents a reservation of a staff member's time
type Booking struct {
	ID         int64
	BusinessID int64
	ServiceID  int64
	StaffID    int64
	Customer   Customer
	StartAt    time.Time
	EndAt      time.Time
	Status     BookingStatus
	Payment    Payment

	// Оценка риска на момент бронирования, хранится для аудита
	Risk RiskAssessment

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOccupying returns true if the booking blocks the staff member's time
func (b *Booking) IsOccupying() bool {
	return b.Status.Occupies()
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	for _, st := range CancellableStatuses {
		if b.Status == st {
			return true
		}
	}
	return false
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelledByCustomer || b.Status == StatusCancelledByBusiness
}

// Interval returns the booking's [StartAt, EndAt) range
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartAt, End: b.EndAt}
}

// BookingsFilter фильтр для получения бронирований бизнеса
type BookingsFilter struct {
	BusinessID      int64          // Обязательный параметр
	StaffID         *int64         // Фильтр по мастеру (опционально)
	From            *time.Time     // Начало периода, включительно
	To              *time.Time     // Конец периода, не включительно
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли бронирования, не занимающие время
}
