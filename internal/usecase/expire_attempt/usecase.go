package expire_attempt

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	attemptStore "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/attempt"
)

var errSkip = errors.New("expire_attempt: attempt is not awaiting payment")

// UseCase прерывает попытку, у которой истекло окно оплаты, и отменяет авторизацию.
// Вызывается отложенной задачей очереди.
type UseCase struct {
	attempts     AttemptStore
	gateway      PaymentGateway
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(attempts AttemptStore, gateway PaymentGateway, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		attempts:     attempts,
		gateway:      gateway,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Expire awaiting_payment -> aborted + void. Попытки в других состояниях не трогает.
// Ошибка возвращается, только если задачу стоит повторить.
func (uc *UseCase) Expire(ctx context.Context, authorizationID string) error {
	now := uc.timeProvider.Now()
	uc.logger.Info("ExpireAttempt: auth=%s", authorizationID)

	// 1. Переводим в aborted, если окно оплаты действительно истекло
	var state domain.AttemptState
	var reason string
	_, err := uc.attempts.Update(ctx, authorizationID, func(a *domain.BookingAttempt) error {
		state, reason = a.State, a.FailureReason
		if a.State != domain.AttemptAwaitingPayment {
			return errSkip
		}
		if !a.IsExpired(now) {
			return ErrNotYetExpired
		}
		return a.Abort(domain.AbortReasonExpired, now)
	})

	switch {
	case err == nil:
		uc.metrics.AttemptAborted(domain.AbortReasonExpired)
		uc.logger.Info("ExpireAttempt: attempt auth=%s aborted", authorizationID)

	case errors.Is(err, attemptStore.ErrAttemptNotFound):
		uc.logger.Warn("ExpireAttempt: attempt auth=%s not found, nothing to do", authorizationID)
		return nil

	case errors.Is(err, ErrNotYetExpired):
		uc.logger.Warn("ExpireAttempt: attempt auth=%s fired before window end, retrying later", authorizationID)
		return err

	case errors.Is(err, errSkip):
		// Повтор задачи после неудачной отмены авторизации
		if state == domain.AttemptAborted && reason == domain.AbortReasonExpired {
			break
		}
		uc.logger.Info("ExpireAttempt: attempt auth=%s is %s, skipping", authorizationID, state)
		return nil

	default:
		uc.logger.Error("ExpireAttempt: failed to abort attempt auth=%s: %v", authorizationID, err)
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 2. Снимаем блокировку средств
	if err := uc.gateway.Void(ctx, authorizationID); err != nil {
		uc.metrics.Compensation("void", false)
		uc.logger.Error("ExpireAttempt: failed to void auth=%s: %v", authorizationID, err)
		return fmt.Errorf("%w: %v", ErrVoidFailed, err)
	}
	uc.metrics.Compensation("void", true)

	return nil
}
