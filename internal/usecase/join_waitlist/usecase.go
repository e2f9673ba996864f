package join_waitlist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots"
)

// UseCase use case записи клиента в лист ожидания на день без свободных слотов
type UseCase struct {
	waitlistRepo WaitlistRepository
	planner      Planner
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(waitlistRepo WaitlistRepository, planner Planner, logger Logger) *UseCase {
	return &UseCase{
		waitlistRepo: waitlistRepo,
		planner:      planner,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute создает запись или обновляет желаемый интервал у существующей
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("JoinWaitlist: business=%d, service=%d, date=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("JoinWaitlist: validation failed: %v", err)
		return nil, err
	}

	// 2. Прошедшие даты не принимаем
	loc := uc.planner.Location()
	now := uc.timeProvider.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	date := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		uc.logger.Warn("JoinWaitlist: date %s is in the past", date.Format(domain.DateFormat))
		return nil, fmt.Errorf("%w: date is in the past", ErrInvalidInput)
	}

	// 3. Услуга должна существовать у бизнеса
	if _, err := uc.planner.Offering(ctx, req.BusinessID, req.ServiceID); err != nil {
		if errors.Is(err, slots.ErrServiceNotFound) {
			uc.logger.Warn("JoinWaitlist: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		// Услуга без мастеров тоже годится для листа ожидания
		if !errors.Is(err, slots.ErrInvalidServiceConfiguration) {
			uc.logger.Error("JoinWaitlist: failed to load service: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	// 4. Upsert по (бизнес, услуга, email, дата)
	entry := &domain.WaitlistEntry{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		Date:       date,
		PreferredRange: domain.TimeRange{
			Start: req.PreferredStart,
			End:   req.PreferredEnd,
		},
		Customer: domain.Customer{
			Email: domain.NormalizeEmail(req.Customer.Email),
			Name:  strings.TrimSpace(req.Customer.Name),
			Phone: req.Customer.Phone,
		},
	}

	saved, created, err := uc.waitlistRepo.Upsert(ctx, entry)
	if err != nil {
		uc.logger.Error("JoinWaitlist: failed to upsert entry: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	if created {
		uc.logger.Info("JoinWaitlist: created entry id=%d", saved.ID)
	} else {
		uc.logger.Info("JoinWaitlist: updated entry id=%d", saved.ID)
	}

	return &Response{
		ID:             saved.ID,
		BusinessID:     saved.BusinessID,
		ServiceID:      saved.ServiceID,
		Date:           saved.Date,
		PreferredStart: saved.PreferredRange.Start,
		PreferredEnd:   saved.PreferredRange.End,
		CustomerEmail:  saved.Customer.Email,
		CustomerName:   saved.Customer.Name,
		Created:        created,
		CreatedAt:      saved.CreatedAt,
		UpdatedAt:      saved.UpdatedAt,
	}, nil
}
