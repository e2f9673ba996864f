package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/availability"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByAuthorizationID(ctx context.Context, authorizationID string) (*domain.Booking, error)
	LockStaff(ctx context.Context, staffID int64) error
	CustomerHistory(ctx context.Context, businessID int64, email string) (domain.CustomerHistory, error)
}

// Planner источник данных движка доступности
type Planner interface {
	Offering(ctx context.Context, businessID, serviceID int64) (*slots.Offering, error)
	StaffOrder(offering *slots.Offering, staffID *int64) ([]int64, error)
	Availability(ctx context.Context, offering *slots.Offering, staffOrder []int64, date, now time.Time) (*availability.Availability, error)
	Query(offering *slots.Offering, date, now time.Time) (availability.Query, bool)
	Profiles(ctx context.Context, staffIDs []int64) (map[int64]*domain.StaffAvailabilityProfile, error)
	StaffDays(ctx context.Context, profiles map[int64]*domain.StaffAvailabilityProfile, date time.Time) (map[int64]availability.StaffDay, error)
	LocalDate(profile *domain.StaffAvailabilityProfile, startAt time.Time) time.Time
	Date(startAt time.Time) time.Time
}

// AttemptStore хранилище попыток бронирования
type AttemptStore interface {
	Get(ctx context.Context, authorizationID string) (*domain.BookingAttempt, error)
	Update(ctx context.Context, authorizationID string, fn func(a *domain.BookingAttempt) error) (*domain.BookingAttempt, error)
}

// PaymentGateway списание, отмена и возврат депозита
type PaymentGateway interface {
	Capture(ctx context.Context, authorizationID string, amount int64) error
	Void(ctx context.Context, authorizationID string) error
	Refund(ctx context.Context, authorizationID string, amount int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics счетчики движка бронирований
type Metrics interface {
	BookingCommit(path, result string)
	Compensation(kind string, ok bool)
	AttemptAborted(reason string)
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
