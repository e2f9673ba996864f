package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrIllegalTransition = errors.New("domain: illegal booking attempt transition")

// AttemptState состояние попытки бронирования
type AttemptState string

const (
	AttemptQuoted          AttemptState = "quoted"
	AttemptAwaitingPayment AttemptState = "awaiting_payment"
	AttemptCommitting      AttemptState = "committing" // захвачено коммитом, истечение окна уже не применяется
	AttemptBooked          AttemptState = "booked"
	AttemptAborted         AttemptState = "aborted"
	AttemptCancelled       AttemptState = "cancelled"
)

// Причины перевода попытки в ABORTED
const (
	AbortReasonExpired           = "payment_window_expired"
	AbortReasonSlotUnavailable   = "slot_no_longer_available"
	AbortReasonCaptureFailed     = "payment_capture_failed"
	AbortReasonPersistenceFailed = "post_capture_persistence_failure"
)

// attemptTransitions допустимые переходы машины состояний
var attemptTransitions = map[AttemptState][]AttemptState{
	AttemptQuoted:          {AttemptBooked, AttemptAwaitingPayment, AttemptAborted},
	AttemptAwaitingPayment: {AttemptCommitting, AttemptAborted},
	AttemptCommitting:      {AttemptBooked, AttemptAborted},
	AttemptBooked:          {AttemptCancelled},
}

// AllowedTransitions returns the states reachable from s in one step
func (s AttemptState) AllowedTransitions() []AttemptState {
	next := attemptTransitions[s]
	out := make([]AttemptState, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether s -> to is a legal move
func (s AttemptState) CanTransition(to AttemptState) bool {
	for _, next := range attemptTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true when no further transitions are possible
func (s AttemptState) IsTerminal() bool {
	return len(attemptTransitions[s]) == 0
}

// BookingAttempt экземпляр машины состояний для одной попытки бронирования.
// Живет в хранилище попыток до истечения TTL, после BOOKED источником правды
// становится запись Booking.
type BookingAttempt struct {
	ID              string
	AuthorizationID string
	BusinessID      int64
	ServiceID       int64
	StaffID         int64
	StartAt         time.Time
	EndAt           time.Time
	Customer        Customer
	State           AttemptState
	Risk            RiskAssessment
	DepositAmount   int64
	ExpiresAt       time.Time
	BookingID       *int64
	FailureReason   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Transition moves the attempt to the next state or returns ErrIllegalTransition
func (a *BookingAttempt) Transition(to AttemptState, now time.Time) error {
	if !a.State.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, a.State, to)
	}
	a.State = to
	a.UpdatedAt = now
	return nil
}

// Abort moves the attempt to ABORTED recording the reason
func (a *BookingAttempt) Abort(reason string, now time.Time) error {
	if err := a.Transition(AttemptAborted, now); err != nil {
		return err
	}
	a.FailureReason = reason
	return nil
}

// IsExpired returns true once the payment window has passed
func (a *BookingAttempt) IsExpired(now time.Time) bool {
	return !a.ExpiresAt.IsZero() && !now.Before(a.ExpiresAt)
}

// Matches checks that a commit request refers to the same slot and customer.
// An attempt quoted without a customer accepts any customer.
func (a *BookingAttempt) Matches(businessID, serviceID, staffID int64, startAt time.Time, email string) bool {
	return a.BusinessID == businessID &&
		a.ServiceID == serviceID &&
		(staffID == 0 || a.StaffID == staffID) &&
		a.StartAt.Equal(startAt) &&
		(a.Customer.Email == "" || NormalizeEmail(a.Customer.Email) == NormalizeEmail(email))
}
