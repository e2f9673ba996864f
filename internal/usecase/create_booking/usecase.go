package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-SalonBookingService/internal/availability"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SalonBookingService/internal/risk"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots"
)

const (
	pathDirect  = "direct"
	pathDeposit = "deposit"

	resultBooked          = "booked"
	resultConflict        = "conflict"
	resultDepositRequired = "deposit_required"
	resultExpired         = "expired"
	resultCaptureFailed   = "capture_failed"
	resultIncident        = "incident"
	resultError           = "error"
)

// UseCase координатор фиксации бронирования. Повторно проверяет слот под
// блокировкой мастера и, на пути с депозитом, согласует списание и сохранение.
type UseCase struct {
	bookingRepo  BookingRepository
	planner      Planner
	attempts     AttemptStore
	gateway      PaymentGateway
	txManager    TransactionManager
	metrics      Metrics
	weights      risk.Weights
	tracer       trace.Tracer
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	planner Planner,
	attempts AttemptStore,
	gateway PaymentGateway,
	txManager TransactionManager,
	metrics Metrics,
	weights risk.Weights,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		planner:      planner,
		attempts:     attempts,
		gateway:      gateway,
		txManager:    txManager,
		metrics:      metrics,
		weights:      weights,
		tracer:       otel.Tracer("salon-booking.usecase.create_booking"),
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: business=%d, service=%d, start=%s, deposit=%t",
		req.BusinessID, req.ServiceID, req.StartAt.Format(time.RFC3339), req.PaymentAuthorizationID != nil)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем услугу и политику
	offering, err := uc.planner.Offering(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrServiceNotFound):
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		case errors.Is(err, slots.ErrInvalidServiceConfiguration):
			uc.logger.Warn("CreateBooking: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidServiceConfiguration, err)
		}
		uc.logger.Error("CreateBooking: failed to load offering: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 4. Фиксируем бронирование по одному из путей
	var booking *domain.Booking
	if req.PaymentAuthorizationID != nil {
		booking, err = uc.commitWithDeposit(ctx, req, offering, now)
	} else {
		booking, err = uc.commitDirect(ctx, req, offering, now)
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: booking id=%d staff=%d start=%s",
		booking.ID, booking.StaffID, booking.StartAt.Format(time.RFC3339))

	return toResponse(booking), nil
}

// commitDirect путь без депозита: quoted -> booked или quoted -> aborted при конфликте
func (uc *UseCase) commitDirect(ctx context.Context, req *Request, offering *slots.Offering, now time.Time) (*domain.Booking, error) {
	ctx, span := uc.tracer.Start(ctx, "booking.commit", trace.WithAttributes(attribute.String("path", pathDirect)))
	defer span.End()

	// 1. Определяем мастера и проверяем, что слот у него свободен
	staffID, err := uc.pickStaff(ctx, offering, req.StaffID, req.StartAt, now)
	if err == nil && req.StaffID != nil {
		err = uc.precheck(ctx, offering, staffID, req.StartAt, now)
	}
	if err != nil {
		if errors.Is(err, ErrSlotNoLongerAvailable) {
			uc.logger.Warn("CreateBooking: no staff free at %s", req.StartAt.Format(time.RFC3339))
			uc.metrics.BookingCommit(pathDirect, resultConflict)
		}
		return nil, err
	}
	span.SetAttributes(attribute.Int64("staff_id", staffID))

	// 2. Пересчитываем риск: без депозита бронирование допустимо, только если он не нужен
	customer := req.customer()
	history, err := uc.bookingRepo.CustomerHistory(ctx, req.BusinessID, customer.Email)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get customer history: %v", err)
		return nil, fmt.Errorf("%w: failed to get customer history: %v", ErrInternal, err)
	}

	assessment := risk.Evaluate(risk.Input{
		History:    history,
		PriceCents: offering.Service.PriceCents,
		LeadTime:   req.StartAt.Sub(now),
		Now:        now,
	}, risk.PolicyFor(uc.weights, offering.Policy))

	if assessment.DepositRequired {
		uc.logger.Warn("CreateBooking: deposit required, score=%d, amount=%d", assessment.Score, assessment.DepositAmount)
		uc.metrics.BookingCommit(pathDirect, resultDepositRequired)
		return nil, fmt.Errorf("%w: %s", ErrDepositRequired, assessment.DepositReason)
	}

	// 3. Повторная проверка и сохранение под блокировкой мастера
	booking := &domain.Booking{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		StaffID:    staffID,
		Customer:   customer,
		StartAt:    req.StartAt,
		EndAt:      req.StartAt.Add(offering.Service.Duration()),
		Status:     domain.StatusConfirmed,
		Payment:    domain.Payment{Status: domain.PaymentNotRequired},
		Risk:       assessment,
		Notes:      req.Notes,
	}

	created, err := uc.persist(ctx, offering, booking, now)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrSlotNoLongerAvailable) {
			uc.logger.Warn("CreateBooking: quoted attempt aborted, staff=%d start=%s is taken",
				staffID, req.StartAt.Format(time.RFC3339))
			uc.metrics.BookingCommit(pathDirect, resultConflict)
			return nil, err
		}
		uc.logger.Error("CreateBooking: failed to save booking: %v", err)
		uc.metrics.BookingCommit(pathDirect, resultError)
		return nil, err
	}

	uc.metrics.BookingCommit(pathDirect, resultBooked)
	return created, nil
}

// pickStaff явный мастер или первый свободный из допущенных к услуге
func (uc *UseCase) pickStaff(ctx context.Context, offering *slots.Offering, staffID *int64, startAt, now time.Time) (int64, error) {
	order, err := uc.planner.StaffOrder(offering, staffID)
	if err != nil {
		return 0, ErrStaffNotEligible
	}
	if staffID != nil {
		return *staffID, nil
	}

	avail, err := uc.planner.Availability(ctx, offering, order, uc.planner.Date(startAt), now)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to compute availability: %v", err)
		return 0, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	id, ok := avail.FirstStaffAt(startAt)
	if !ok {
		return 0, ErrSlotNoLongerAvailable
	}
	return id, nil
}

// persist повторяет расчет дня мастера внутри транзакции под advisory-блокировкой
// и вставляет бронирование. Пересечение, пойманное ограничением БД, тоже
// дает ErrSlotNoLongerAvailable.
func (uc *UseCase) persist(ctx context.Context, offering *slots.Offering, booking *domain.Booking, now time.Time) (*domain.Booking, error) {
	ctx, span := uc.tracer.Start(ctx, "booking.persist", trace.WithAttributes(attribute.Int64("staff_id", booking.StaffID)))
	defer span.End()

	profiles, err := uc.planner.Profiles(ctx, []int64{booking.StaffID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	profile, ok := profiles[booking.StaffID]
	if !ok {
		return nil, ErrSlotNoLongerAvailable
	}

	var created *domain.Booking
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if lockErr := uc.bookingRepo.LockStaff(txCtx, booking.StaffID); lockErr != nil {
			return fmt.Errorf("%w: lock staff: %v", ErrInternal, lockErr)
		}

		if checkErr := uc.revalidate(txCtx, offering, profile, booking.StaffID, booking.StartAt, now); checkErr != nil {
			return checkErr
		}

		b, createErr := uc.bookingRepo.Create(txCtx, booking)
		if createErr != nil {
			switch {
			case errors.Is(createErr, bookingRepo.ErrSlotTaken):
				return ErrSlotNoLongerAvailable
			case errors.Is(createErr, bookingRepo.ErrDuplicateAuthorization):
				return createErr
			}
			return fmt.Errorf("%w: create booking: %v", ErrInternal, createErr)
		}
		created = b
		return nil
	})
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrSlotNoLongerAvailable) || errors.Is(err, bookingRepo.ErrDuplicateAuthorization) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: transaction: %v", ErrInternal, err)
	}

	return created, nil
}

// revalidate проверяет, что start все еще свободен у мастера
func (uc *UseCase) revalidate(
	ctx context.Context,
	offering *slots.Offering,
	profile *domain.StaffAvailabilityProfile,
	staffID int64,
	startAt, now time.Time,
) error {
	date := uc.planner.LocalDate(profile, startAt)

	q, open := uc.planner.Query(offering, date, now)
	if !open {
		return ErrSlotNoLongerAvailable
	}

	days, err := uc.planner.StaffDays(ctx, map[int64]*domain.StaffAvailabilityProfile{staffID: profile}, date)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if _, ok := availability.SlotFor(q, staffID, days[staffID], startAt); !ok {
		return ErrSlotNoLongerAvailable
	}
	return nil
}

func (r *Request) customer() domain.Customer {
	return domain.Customer{
		Email: domain.NormalizeEmail(r.Customer.Email),
		Name:  r.Customer.Name,
		Phone: r.Customer.Phone,
	}
}
