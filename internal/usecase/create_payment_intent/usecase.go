package create_payment_intent

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/payments"
	"github.com/m04kA/SMC-SalonBookingService/internal/risk"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots"
)

// UseCase оценивает риск неявки и, если нужен депозит, открывает авторизацию
// платежа и попытку бронирования в состоянии awaiting_payment
type UseCase struct {
	planner      Planner
	history      HistoryRepository
	gateway      PaymentGateway
	attempts     AttemptStore
	scheduler    ExpiryScheduler
	weights      risk.Weights
	currency     string
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	planner Planner,
	history HistoryRepository,
	gateway PaymentGateway,
	attempts AttemptStore,
	scheduler ExpiryScheduler,
	weights risk.Weights,
	currency string,
	logger Logger,
) *UseCase {
	return &UseCase{
		planner:      planner,
		history:      history,
		gateway:      gateway,
		attempts:     attempts,
		scheduler:    scheduler,
		weights:      weights,
		currency:     currency,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case. Без депозита попытка не сохраняется:
// клиент сразу фиксирует бронирование прямым путем.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreatePaymentIntent: business=%d, service=%d, start=%s",
		req.BusinessID, req.ServiceID, req.StartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreatePaymentIntent: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу и политику
	offering, err := uc.planner.Offering(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrServiceNotFound):
			uc.logger.Warn("CreatePaymentIntent: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		case errors.Is(err, slots.ErrInvalidServiceConfiguration):
			uc.logger.Warn("CreatePaymentIntent: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidServiceConfiguration, err)
		}
		uc.logger.Error("CreatePaymentIntent: failed to load offering: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 4. Проверяем, что время свободно, и выбираем мастера
	staffOrder, err := uc.planner.StaffOrder(offering, req.StaffID)
	if err != nil {
		uc.logger.Warn("CreatePaymentIntent: staff is not eligible for service id=%d", req.ServiceID)
		return nil, ErrStaffNotEligible
	}

	avail, err := uc.planner.Availability(ctx, offering, staffOrder, uc.planner.Date(req.StartAt), now)
	if err != nil {
		uc.logger.Error("CreatePaymentIntent: failed to compute availability: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	staffID, ok := avail.FirstStaffAt(req.StartAt)
	if !ok {
		uc.logger.Warn("CreatePaymentIntent: start=%s is not available", req.StartAt.Format(domain.TimeFormat))
		return nil, ErrSlotNotAvailable
	}

	// 5. Оцениваем риск
	customer := domain.Customer{}
	history := domain.CustomerHistory{}
	if req.Customer != nil {
		customer = domain.Customer{
			Email: domain.NormalizeEmail(req.Customer.Email),
			Name:  req.Customer.Name,
			Phone: req.Customer.Phone,
		}
		history, err = uc.history.CustomerHistory(ctx, req.BusinessID, customer.Email)
		if err != nil {
			uc.logger.Error("CreatePaymentIntent: failed to get customer history: %v", err)
			return nil, fmt.Errorf("%w: failed to get customer history: %v", ErrInternal, err)
		}
	}

	assessment := risk.Evaluate(risk.Input{
		History:    history,
		PriceCents: offering.Service.PriceCents,
		LeadTime:   req.StartAt.Sub(now),
		Now:        now,
	}, risk.PolicyFor(uc.weights, offering.Policy))

	response := &Response{
		DepositRequired: assessment.DepositRequired,
		DepositAmount:   assessment.DepositAmount,
		DepositReason:   assessment.DepositReason,
		RiskScore:       assessment.Score,
		RiskFactors:     assessment.Factors,
		StaffID:         staffID,
		StartAt:         req.StartAt,
		EndAt:           req.StartAt.Add(offering.Service.Duration()),
	}

	uc.logger.Info("CreatePaymentIntent: risk score=%d, deposit_required=%t, amount=%d",
		assessment.Score, assessment.DepositRequired, assessment.DepositAmount)

	if !assessment.DepositRequired {
		return response, nil
	}

	// 6. Открываем авторизацию депозита
	attemptID := uuid.NewString()
	expiresAt := now.Add(offering.Policy.PaymentWindow())

	auth, err := uc.gateway.Authorize(ctx, payments.AuthorizeRequest{
		Amount:         assessment.DepositAmount,
		Currency:       uc.currency,
		IdempotencyKey: attemptID,
		CustomerEmail:  customer.Email,
		Description:    fmt.Sprintf("Депозит за запись: %s", offering.Service.Name),
		Metadata: map[string]string{
			"attempt_id":  attemptID,
			"business_id": strconv.FormatInt(req.BusinessID, 10),
			"service_id":  strconv.FormatInt(req.ServiceID, 10),
			"staff_id":    strconv.FormatInt(staffID, 10),
		},
	})
	if err != nil {
		uc.logger.Error("CreatePaymentIntent: authorization failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	// 7. Сохраняем попытку в состоянии awaiting_payment
	attempt := &domain.BookingAttempt{
		ID:              attemptID,
		AuthorizationID: auth.ID,
		BusinessID:      req.BusinessID,
		ServiceID:       req.ServiceID,
		StaffID:         staffID,
		StartAt:         req.StartAt,
		EndAt:           response.EndAt,
		Customer:        customer,
		State:           domain.AttemptQuoted,
		Risk:            assessment,
		DepositAmount:   assessment.DepositAmount,
		ExpiresAt:       expiresAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := attempt.Transition(domain.AttemptAwaitingPayment, now); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if err := uc.attempts.Create(ctx, attempt); err != nil {
		uc.logger.Error("CreatePaymentIntent: failed to save attempt auth=%s: %v", auth.ID, err)
		if voidErr := uc.gateway.Void(ctx, auth.ID); voidErr != nil {
			uc.logger.Error("CreatePaymentIntent: failed to void authorization auth=%s: %v", auth.ID, voidErr)
		}
		return nil, fmt.Errorf("%w: failed to save attempt: %v", ErrInternal, err)
	}

	// 8. Планируем истечение окна оплаты. Коммит сам проверяет срок,
	// поэтому ошибка планировщика не прерывает запрос.
	if err := uc.scheduler.ScheduleExpiry(ctx, auth.ID, expiresAt); err != nil {
		uc.logger.Warn("CreatePaymentIntent: failed to schedule expiry auth=%s: %v", auth.ID, err)
	}

	uc.logger.Info("CreatePaymentIntent: attempt id=%s awaiting payment auth=%s until %s",
		attemptID, auth.ID, expiresAt.Format("15:04:05"))

	response.AuthorizationID = &auth.ID
	response.ClientSecret = &auth.ClientSecret
	response.ExpiresAt = &expiresAt
	return response, nil
}
