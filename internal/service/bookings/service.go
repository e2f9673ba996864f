package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	attemptStore "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/attempt"
	bookingRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/booking"
	catalogClient "github.com/m04kA/SMC-SalonBookingService/internal/integrations/catalog"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями после их создания
type Service struct {
	bookingRepo   BookingRepository
	catalogClient CatalogClient
	gateway       PaymentGateway
	attempts      AttemptStore
	location      *time.Location
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований.
// location используется для дат бизнеса без собственного часового пояса.
func NewService(
	bookingRepo BookingRepository,
	catalogClient CatalogClient,
	gateway PaymentGateway,
	attempts AttemptStore,
	location *time.Location,
	logger Logger,
) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		bookingRepo:   bookingRepo,
		catalogClient: catalogClient,
		gateway:       gateway,
		attempts:      attempts,
		location:      location,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// GetByID получает бронирование по ID.
// Клиент видит свое бронирование по email, менеджер видит любое бронирование бизнеса.
func (s *Service) GetByID(ctx context.Context, req *models.GetBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", req.BookingID)

	booking, err := s.get(ctx, "GetByID", req.BookingID)
	if err != nil {
		return nil, err
	}

	if err := s.checkAccess(ctx, booking, req.UserID, req.CustomerEmail); err != nil {
		s.logger.Warn("GetByID: access denied to booking id=%d", req.BookingID)
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// ListByBusiness возвращает бронирования бизнеса для календаря.
// Доступно только менеджерам бизнеса.
func (s *Service) ListByBusiness(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListByBusiness: business=%d, user=%d", req.BusinessID, req.UserID)

	business, err := s.business(ctx, req.BusinessID)
	if err != nil {
		return nil, err
	}
	if !business.IsManager(req.UserID) {
		s.logger.Warn("ListByBusiness: user=%d is not a manager of business=%d", req.UserID, req.BusinessID)
		return nil, ErrAccessDenied
	}

	filter := domain.BookingsFilter{
		BusinessID:      req.BusinessID,
		StaffID:         req.StaffID,
		IncludeInactive: req.IncludeInactive,
	}

	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListByBusiness: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Status = &status
	}

	// Границы дня считаются в часовом поясе бизнеса
	if req.Date != nil {
		loc := s.businessLocation(business)
		from := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, loc)
		to := from.AddDate(0, 0, 1)
		filter.From, filter.To = &from, &to
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListByBusiness: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: ListByBusiness - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByBusiness: fetched %d bookings for business=%d", len(bookings), req.BusinessID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование.
// Клиент отменяет свое бронирование (cancelled_by_customer), депозит остается у бизнеса.
// Менеджер отменяет любое бронирование бизнеса (cancelled_by_business), списанный депозит возвращается.
func (s *Service) Cancel(ctx context.Context, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by %s", req.BookingID, req.CancelledBy)

	// 1. Получаем бронирование
	booking, err := s.get(ctx, "Cancel", req.BookingID)
	if err != nil {
		return nil, err
	}

	// 2. Проверяем права инициатора
	var status domain.BookingStatus
	switch req.CancelledBy {
	case models.CancelledByCustomer:
		if req.CustomerEmail == nil || domain.NormalizeEmail(*req.CustomerEmail) != booking.Customer.Email {
			s.logger.Warn("Cancel: customer email does not match booking id=%d", req.BookingID)
			return nil, ErrAccessDenied
		}
		status = domain.StatusCancelledByCustomer
	case models.CancelledByBusiness:
		if req.UserID == nil {
			return nil, ErrAccessDenied
		}
		if err := s.checkManager(ctx, booking.BusinessID, *req.UserID); err != nil {
			return nil, err
		}
		status = domain.StatusCancelledByBusiness
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, models.ErrInvalidCancelledBy)
	}

	// 3. Проверяем, можно ли отменить бронирование
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", req.BookingID, booking.Status)
		return nil, ErrCannotCancel
	}

	now := s.timeProvider.Now()

	// 4. Отменяем бронирование. Параллельная отмена того же бронирования
	// получит ErrNotCancellable и не дойдет до возврата депозита
	if err := s.bookingRepo.Cancel(ctx, booking.ID, status, req.Reason, now); err != nil {
		switch {
		case errors.Is(err, bookingRepo.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		case errors.Is(err, bookingRepo.ErrNotCancellable):
			s.logger.Warn("Cancel: booking id=%d was changed concurrently, not cancelled", booking.ID)
			return nil, ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// 5. Попытка бронирования booked -> cancelled, если она еще в хранилище
	if authID := booking.Payment.AuthorizationID; authID != nil {
		s.closeAttempt(ctx, *authID, now)
	}

	// 6. Возврат депозита при отмене бизнесом
	if status == domain.StatusCancelledByBusiness && booking.Payment.Status == domain.PaymentCaptured {
		s.refund(ctx, booking, now)
	}

	updated, err := s.get(ctx, "Cancel", booking.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: cancelled booking id=%d with status=%s", booking.ID, status)
	return models.FromDomainBooking(updated), nil
}

// refund возвращает депозит. Бронирование уже отменено, поэтому ошибка
// возврата не откатывает отмену и требует ручной обработки.
func (s *Service) refund(ctx context.Context, booking *domain.Booking, now time.Time) {
	authID := *booking.Payment.AuthorizationID

	if err := s.gateway.Refund(ctx, authID, booking.Payment.CapturedAmount); err != nil {
		s.logger.Error("Cancel: refund failed for booking id=%d auth=%s amount=%d, manual refund required: %v",
			booking.ID, authID, booking.Payment.CapturedAmount, err)
		return
	}

	if err := s.bookingRepo.UpdatePaymentStatus(ctx, booking.ID, domain.PaymentRefunded, now); err != nil {
		s.logger.Error("Cancel: deposit refunded but payment status not saved for booking id=%d: %v", booking.ID, err)
		return
	}
	s.logger.Info("Cancel: refunded %d for booking id=%d", booking.Payment.CapturedAmount, booking.ID)
}

func (s *Service) closeAttempt(ctx context.Context, authID string, now time.Time) {
	_, err := s.attempts.Update(ctx, authID, func(a *domain.BookingAttempt) error {
		return a.Transition(domain.AttemptCancelled, now)
	})
	if err != nil && !errors.Is(err, attemptStore.ErrAttemptNotFound) {
		s.logger.Warn("Cancel: attempt auth=%s not moved to cancelled: %v", authID, err)
	}
}

func (s *Service) get(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// checkAccess клиент по email или менеджер бизнеса
func (s *Service) checkAccess(ctx context.Context, booking *domain.Booking, userID *int64, email *string) error {
	if email != nil && domain.NormalizeEmail(*email) == booking.Customer.Email {
		return nil
	}
	if userID != nil {
		return s.checkManager(ctx, booking.BusinessID, *userID)
	}
	return ErrAccessDenied
}

// checkManager проверяет, что пользователь является менеджером бизнеса
func (s *Service) checkManager(ctx context.Context, businessID, userID int64) error {
	business, err := s.business(ctx, businessID)
	if err != nil {
		return err
	}
	if !business.IsManager(userID) {
		s.logger.Warn("checkManager: user=%d is not a manager of business=%d", userID, businessID)
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) business(ctx context.Context, businessID int64) (*catalogClient.Business, error) {
	business, err := s.catalogClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBusinessNotFound) {
			s.logger.Warn("business: id=%d not found", businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("business: failed to get business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}
	return business, nil
}

func (s *Service) businessLocation(b *catalogClient.Business) *time.Location {
	if b.Timezone != "" {
		if loc, err := time.LoadLocation(b.Timezone); err == nil {
			return loc
		}
	}
	return s.location
}
