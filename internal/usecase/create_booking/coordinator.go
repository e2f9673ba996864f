package create_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	attemptStore "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/attempt"
	bookingRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots"
)

var (
	errAttemptMoved   = errors.New("create_booking: attempt state changed concurrently")
	errAttemptExpired = errors.New("create_booking: attempt expired while claiming")
)

// commitWithDeposit путь с депозитом:
// awaiting_payment -> committing -> booked, при ошибках -> aborted с компенсацией
func (uc *UseCase) commitWithDeposit(ctx context.Context, req *Request, offering *slots.Offering, now time.Time) (*domain.Booking, error) {
	authID := strings.TrimSpace(*req.PaymentAuthorizationID)

	ctx, span := uc.tracer.Start(ctx, "booking.commit", trace.WithAttributes(
		attribute.String("path", pathDeposit),
		attribute.String("authorization_id", authID),
	))
	defer span.End()

	// 1. Загружаем попытку
	attempt, err := uc.attempts.Get(ctx, authID)
	if err != nil {
		if errors.Is(err, attemptStore.ErrAttemptNotFound) {
			uc.logger.Warn("CreateBooking: attempt auth=%s not found", authID)
			return nil, ErrAuthorizationNotFound
		}
		uc.logger.Error("CreateBooking: failed to load attempt auth=%s: %v", authID, err)
		return nil, fmt.Errorf("%w: load attempt: %v", ErrInternal, err)
	}

	// 2. Повторный запрос или уже завершенная попытка
	if attempt.State != domain.AttemptAwaitingPayment {
		return uc.settled(ctx, attempt)
	}

	// 3. Запрос должен относиться к тому же слоту и клиенту
	var staffID int64
	if req.StaffID != nil {
		staffID = *req.StaffID
	}
	if !attempt.Matches(req.BusinessID, req.ServiceID, staffID, req.StartAt, req.Customer.Email) {
		uc.logger.Warn("CreateBooking: request does not match attempt auth=%s", authID)
		return nil, ErrAuthorizationMismatch
	}

	// 4. Окно оплаты
	if attempt.IsExpired(now) {
		return uc.expire(ctx, authID, now)
	}

	// 5. Предварительная проверка слота до списания
	if err := uc.precheck(ctx, offering, attempt.StaffID, attempt.StartAt, now); err != nil {
		if errors.Is(err, ErrSlotNoLongerAvailable) {
			uc.logger.Warn("CreateBooking: slot taken before capture, auth=%s", authID)
			if abortErr := uc.abort(ctx, authID, domain.AttemptAwaitingPayment, domain.AbortReasonSlotUnavailable, now); errors.Is(abortErr, errAttemptMoved) {
				return uc.reload(ctx, authID)
			}
			uc.void(ctx, authID)
			uc.metrics.BookingCommit(pathDeposit, resultConflict)
		}
		return nil, err
	}

	// 6. Захватываем попытку, после этого истечение окна ее не трогает
	claimed, err := uc.attempts.Update(ctx, authID, func(a *domain.BookingAttempt) error {
		if a.State != domain.AttemptAwaitingPayment {
			return errAttemptMoved
		}
		if a.IsExpired(now) {
			return errAttemptExpired
		}
		return a.Transition(domain.AttemptCommitting, now)
	})
	switch {
	case errors.Is(err, errAttemptMoved):
		return uc.reload(ctx, authID)
	case errors.Is(err, errAttemptExpired):
		return uc.expire(ctx, authID, now)
	case err != nil:
		uc.logger.Error("CreateBooking: failed to claim attempt auth=%s: %v", authID, err)
		return nil, fmt.Errorf("%w: claim attempt: %v", ErrInternal, err)
	}

	// 7. Списываем депозит
	if err := uc.capture(ctx, claimed); err != nil {
		uc.logger.Error("CreateBooking: capture failed auth=%s: %v", authID, err)
		_ = uc.abort(ctx, authID, domain.AttemptCommitting, domain.AbortReasonCaptureFailed, now)
		uc.void(ctx, authID)
		uc.metrics.BookingCommit(pathDeposit, resultCaptureFailed)
		return nil, fmt.Errorf("%w: %v", ErrPaymentCaptureFailed, err)
	}

	// 8. Повторная проверка и сохранение
	booking := &domain.Booking{
		BusinessID: claimed.BusinessID,
		ServiceID:  claimed.ServiceID,
		StaffID:    claimed.StaffID,
		Customer:   req.customer(),
		StartAt:    claimed.StartAt,
		EndAt:      claimed.StartAt.Add(offering.Service.Duration()),
		Status:     domain.StatusConfirmed,
		Payment: domain.Payment{
			Status:          domain.PaymentCaptured,
			AuthorizationID: &authID,
			CapturedAmount:  claimed.DepositAmount,
		},
		Risk:  claimed.Risk,
		Notes: req.Notes,
	}

	created, err := uc.persist(ctx, offering, booking, now)
	if err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrDuplicateAuthorization):
			existing, getErr := uc.bookingRepo.GetByAuthorizationID(ctx, authID)
			if getErr != nil {
				uc.logger.Error("CreateBooking: booking for auth=%s exists but cannot be loaded: %v", authID, getErr)
				return nil, fmt.Errorf("%w: load booking: %v", ErrInternal, getErr)
			}
			uc.markBooked(ctx, authID, existing.ID, now)
			return existing, nil
		case errors.Is(err, ErrSlotNoLongerAvailable):
			return nil, uc.compensateConflict(ctx, claimed, now)
		default:
			return nil, uc.compensateFailure(ctx, claimed, err, now)
		}
	}

	// 9. Попытка завершена
	uc.markBooked(ctx, authID, created.ID, now)
	uc.metrics.BookingCommit(pathDeposit, resultBooked)

	return created, nil
}

// settled ответ для попытки, которая уже не ждет оплаты
func (uc *UseCase) settled(ctx context.Context, attempt *domain.BookingAttempt) (*domain.Booking, error) {
	switch attempt.State {
	case domain.AttemptBooked:
		var (
			booking *domain.Booking
			err     error
		)
		if attempt.BookingID != nil {
			booking, err = uc.bookingRepo.GetByID(ctx, *attempt.BookingID)
		} else {
			booking, err = uc.bookingRepo.GetByAuthorizationID(ctx, attempt.AuthorizationID)
		}
		if err != nil {
			uc.logger.Error("CreateBooking: attempt auth=%s is booked but booking not loaded: %v", attempt.AuthorizationID, err)
			return nil, fmt.Errorf("%w: load booking: %v", ErrInternal, err)
		}
		uc.logger.Info("CreateBooking: repeated commit for auth=%s, returning booking id=%d", attempt.AuthorizationID, booking.ID)
		return booking, nil

	case domain.AttemptCommitting:
		booking, err := uc.bookingRepo.GetByAuthorizationID(ctx, attempt.AuthorizationID)
		if err == nil {
			return booking, nil
		}
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("CreateBooking: attempt auth=%s is being committed", attempt.AuthorizationID)
			return nil, ErrCommitInProgress
		}
		return nil, fmt.Errorf("%w: load booking: %v", ErrInternal, err)

	case domain.AttemptAborted:
		if attempt.FailureReason == domain.AbortReasonExpired {
			return nil, ErrPaymentAuthorizationExpired
		}
		return nil, fmt.Errorf("%w: %s", ErrAttemptClosed, attempt.FailureReason)
	}

	return nil, fmt.Errorf("%w: attempt is %s", ErrAttemptClosed, attempt.State)
}

// reload перечитывает попытку, изменившуюся конкурентно
func (uc *UseCase) reload(ctx context.Context, authID string) (*domain.Booking, error) {
	attempt, err := uc.attempts.Get(ctx, authID)
	if err != nil {
		return nil, fmt.Errorf("%w: reload attempt: %v", ErrInternal, err)
	}
	return uc.settled(ctx, attempt)
}

// expire awaiting_payment -> aborted и отмена авторизации
func (uc *UseCase) expire(ctx context.Context, authID string, now time.Time) (*domain.Booking, error) {
	uc.logger.Warn("CreateBooking: payment window expired for auth=%s", authID)

	if err := uc.abort(ctx, authID, domain.AttemptAwaitingPayment, domain.AbortReasonExpired, now); err != nil {
		if errors.Is(err, errAttemptMoved) {
			return uc.reload(ctx, authID)
		}
		uc.logger.Error("CreateBooking: failed to abort expired attempt auth=%s: %v", authID, err)
	}
	uc.void(ctx, authID)
	uc.metrics.BookingCommit(pathDeposit, resultExpired)

	return nil, ErrPaymentAuthorizationExpired
}

// precheck проверяет слот мастера без блокировок
func (uc *UseCase) precheck(ctx context.Context, offering *slots.Offering, staffID int64, startAt, now time.Time) error {
	profiles, err := uc.planner.Profiles(ctx, []int64{staffID})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	profile, ok := profiles[staffID]
	if !ok {
		return ErrSlotNoLongerAvailable
	}
	return uc.revalidate(ctx, offering, profile, staffID, startAt, now)
}

func (uc *UseCase) capture(ctx context.Context, attempt *domain.BookingAttempt) error {
	ctx, span := uc.tracer.Start(ctx, "booking.capture", trace.WithAttributes(
		attribute.String("authorization_id", attempt.AuthorizationID),
		attribute.Int64("amount", attempt.DepositAmount),
	))
	defer span.End()

	if err := uc.gateway.Capture(ctx, attempt.AuthorizationID, attempt.DepositAmount); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// abort переводит попытку из состояния from в aborted
func (uc *UseCase) abort(ctx context.Context, authID string, from domain.AttemptState, reason string, now time.Time) error {
	_, err := uc.attempts.Update(ctx, authID, func(a *domain.BookingAttempt) error {
		if a.State != from {
			return errAttemptMoved
		}
		return a.Abort(reason, now)
	})
	if err != nil {
		if !errors.Is(err, errAttemptMoved) {
			uc.logger.Error("CreateBooking: failed to abort attempt auth=%s: %v", authID, err)
		}
		return err
	}
	uc.metrics.AttemptAborted(reason)
	return nil
}

func (uc *UseCase) void(ctx context.Context, authID string) {
	ctx, span := uc.tracer.Start(ctx, "booking.compensate", trace.WithAttributes(
		attribute.String("kind", "void"),
		attribute.String("authorization_id", authID),
	))
	defer span.End()

	err := uc.gateway.Void(ctx, authID)
	uc.metrics.Compensation("void", err == nil)
	if err != nil {
		span.RecordError(err)
		uc.logger.Error("CreateBooking: failed to void authorization auth=%s: %v", authID, err)
	}
}

func (uc *UseCase) refund(ctx context.Context, attempt *domain.BookingAttempt) error {
	ctx, span := uc.tracer.Start(ctx, "booking.compensate", trace.WithAttributes(
		attribute.String("kind", "refund"),
		attribute.String("authorization_id", attempt.AuthorizationID),
		attribute.Int64("amount", attempt.DepositAmount),
	))
	defer span.End()

	err := uc.gateway.Refund(ctx, attempt.AuthorizationID, attempt.DepositAmount)
	uc.metrics.Compensation("refund", err == nil)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// compensateConflict слот заняли между списанием и сохранением: возврат и aborted
func (uc *UseCase) compensateConflict(ctx context.Context, attempt *domain.BookingAttempt, now time.Time) error {
	authID := attempt.AuthorizationID
	uc.logger.Warn("CreateBooking: slot taken after capture, refunding auth=%s", authID)

	if err := uc.refund(ctx, attempt); err != nil {
		uc.incident(attempt, "refund after slot conflict failed", err)
		_ = uc.abort(ctx, authID, domain.AttemptCommitting, domain.AbortReasonPersistenceFailed, now)
		return ErrPostCapturePersistenceFailure
	}

	_ = uc.abort(ctx, authID, domain.AttemptCommitting, domain.AbortReasonSlotUnavailable, now)
	uc.metrics.BookingCommit(pathDeposit, resultConflict)
	return ErrSlotNoLongerAvailable
}

// compensateFailure деньги списаны, бронирование не сохранено по другой причине
func (uc *UseCase) compensateFailure(ctx context.Context, attempt *domain.BookingAttempt, cause error, now time.Time) error {
	refundErr := uc.refund(ctx, attempt)
	if refundErr != nil {
		uc.incident(attempt, fmt.Sprintf("persistence failed (%v), refund failed", cause), refundErr)
	} else {
		uc.incident(attempt, "persistence failed, deposit refunded", cause)
	}

	_ = uc.abort(ctx, attempt.AuthorizationID, domain.AttemptCommitting, domain.AbortReasonPersistenceFailed, now)
	return ErrPostCapturePersistenceFailure
}

func (uc *UseCase) incident(attempt *domain.BookingAttempt, what string, err error) {
	uc.logger.Error("INCIDENT CreateBooking: %s: auth=%s, business=%d, staff=%d, start=%s, amount=%d, customer=%s: %v",
		what, attempt.AuthorizationID, attempt.BusinessID, attempt.StaffID,
		attempt.StartAt.Format(time.RFC3339), attempt.DepositAmount, attempt.Customer.Email, err)
	uc.metrics.BookingCommit(pathDeposit, resultIncident)
}

// markBooked committing -> booked. Бронирование уже сохранено, поэтому
// ошибка здесь только логируется.
func (uc *UseCase) markBooked(ctx context.Context, authID string, bookingID int64, now time.Time) {
	_, err := uc.attempts.Update(ctx, authID, func(a *domain.BookingAttempt) error {
		if a.State == domain.AttemptBooked {
			return nil
		}
		if err := a.Transition(domain.AttemptBooked, now); err != nil {
			return err
		}
		a.BookingID = &bookingID
		return nil
	})
	if err != nil {
		uc.logger.Warn("CreateBooking: booking id=%d saved but attempt auth=%s not updated: %v", bookingID, authID, err)
	}
}
