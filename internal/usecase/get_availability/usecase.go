package get_availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots"
)

// UseCase use case расчета доступных времен записи на день
type UseCase struct {
	planner      Planner
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(planner Planner, metrics Metrics, logger Logger) *UseCase {
	return &UseCase{
		planner:      planner,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет расчет. Мастер, не оказывающий услугу, и дата вне окна
// бронирования дают пустой ответ, а не ошибку.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: business=%d, service=%d, staff=%s, date=%s",
		req.BusinessID, req.ServiceID, staffLabel(req.StaffID), req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	response := &Response{
		Date:      req.Date,
		ServiceID: req.ServiceID,
		StaffID:   req.StaffID,
		Slots:     []Slot{},
	}

	// 2. Получаем услугу и политику бизнеса
	offering, err := uc.planner.Offering(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrServiceNotFound):
			uc.logger.Warn("GetAvailability: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		case errors.Is(err, slots.ErrInvalidServiceConfiguration):
			uc.logger.Warn("GetAvailability: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidServiceConfiguration, err)
		}
		uc.logger.Error("GetAvailability: failed to load offering: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 3. Определяем мастеров для расчета
	staffOrder, err := uc.planner.StaffOrder(offering, req.StaffID)
	if err != nil {
		uc.logger.Warn("GetAvailability: staff=%s is not eligible for service id=%d",
			staffLabel(req.StaffID), req.ServiceID)
		return response, nil
	}

	// 4. Считаем доступность
	avail, err := uc.planner.Availability(ctx, offering, staffOrder, req.Date, uc.timeProvider.Now())
	if err != nil {
		uc.logger.Error("GetAvailability: failed to compute availability: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 5. Собираем ответ в зоне бизнеса
	loc := uc.planner.Location()
	for _, entry := range avail.Entries() {
		response.Slots = append(response.Slots, Slot{
			StartAt:  entry.StartAt,
			Local:    entry.StartAt.In(loc).Format(domain.TimeFormat),
			StaffIDs: entry.StaffIDs,
		})
	}

	mode := "any"
	if req.StaffID != nil {
		mode = "staff"
	}
	if uc.metrics != nil {
		uc.metrics.SlotsOffered(mode, len(response.Slots))
	}

	uc.logger.Info("GetAvailability: found %d start times", len(response.Slots))

	return response, nil
}

func staffLabel(staffID *int64) string {
	if staffID == nil {
		return "any"
	}
	return fmt.Sprintf("%d", *staffID)
}
