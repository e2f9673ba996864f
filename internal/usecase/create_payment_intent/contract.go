package create_payment_intent

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/availability"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/payments"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots"
)

// Planner источник данных движка доступности
type Planner interface {
	Offering(ctx context.Context, businessID, serviceID int64) (*slots.Offering, error)
	StaffOrder(offering *slots.Offering, staffID *int64) ([]int64, error)
	Availability(ctx context.Context, offering *slots.Offering, staffOrder []int64, date, now time.Time) (*availability.Availability, error)
	Date(startAt time.Time) time.Time
}

// HistoryRepository история клиента в бизнесе
type HistoryRepository interface {
	CustomerHistory(ctx context.Context, businessID int64, email string) (domain.CustomerHistory, error)
}

// PaymentGateway открывает авторизацию депозита
type PaymentGateway interface {
	Authorize(ctx context.Context, req payments.AuthorizeRequest) (*payments.Authorization, error)
	Void(ctx context.Context, authorizationID string) error
}

// AttemptStore хранилище попыток бронирования
type AttemptStore interface {
	Create(ctx context.Context, a *domain.BookingAttempt) error
}

// ExpiryScheduler планирует истечение окна оплаты
type ExpiryScheduler interface {
	ScheduleExpiry(ctx context.Context, authorizationID string, at time.Time) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
