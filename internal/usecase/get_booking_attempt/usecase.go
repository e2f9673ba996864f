package get_booking_attempt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	attemptStore "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/attempt"
)

// UseCase use case получения состояния попытки бронирования
type UseCase struct {
	attempts     AttemptStore
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(attempts AttemptStore, logger Logger) *UseCase {
	return &UseCase{
		attempts:     attempts,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case
func (uc *UseCase) Execute(ctx context.Context, authorizationID string) (*Response, error) {
	authorizationID = strings.TrimSpace(authorizationID)
	if authorizationID == "" {
		return nil, fmt.Errorf("%w: authorization id is required", ErrInvalidInput)
	}

	a, err := uc.attempts.Get(ctx, authorizationID)
	if err != nil {
		if errors.Is(err, attemptStore.ErrAttemptNotFound) {
			uc.logger.Warn("GetBookingAttempt: attempt auth=%s not found", authorizationID)
			return nil, ErrAttemptNotFound
		}
		uc.logger.Error("GetBookingAttempt: failed to load attempt auth=%s: %v", authorizationID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	next := a.State.AllowedTransitions()
	transitions := make([]string, 0, len(next))
	for _, s := range next {
		transitions = append(transitions, string(s))
	}

	return &Response{
		AuthorizationID:    a.AuthorizationID,
		State:              string(a.State),
		AllowedTransitions: transitions,
		Terminal:           a.State.IsTerminal(),
		Expired:            a.State == domain.AttemptAwaitingPayment && a.IsExpired(uc.timeProvider.Now()),
		BusinessID:         a.BusinessID,
		ServiceID:          a.ServiceID,
		StaffID:            a.StaffID,
		StartAt:            a.StartAt,
		EndAt:              a.EndAt,
		DepositAmount:      a.DepositAmount,
		ExpiresAt:          a.ExpiresAt,
		BookingID:          a.BookingID,
		FailureReason:      a.FailureReason,
		UpdatedAt:          a.UpdatedAt,
	}, nil
}
