package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/catalog"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason *string, at time.Time) error
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, at time.Time) error
}

// CatalogClient интерфейс клиента каталога
type CatalogClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*catalog.Business, error)
}

// PaymentGateway возврат депозита при отмене бизнесом
type PaymentGateway interface {
	Refund(ctx context.Context, authorizationID string, amount int64) error
}

// AttemptStore хранилище попыток: booked -> cancelled при отмене
type AttemptStore interface {
	Update(ctx context.Context, authorizationID string, fn func(a *domain.BookingAttempt) error) (*domain.BookingAttempt, error)
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
