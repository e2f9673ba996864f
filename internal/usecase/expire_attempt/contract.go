package expire_attempt

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// AttemptStore интерфейс хранилища попыток бронирования
type AttemptStore interface {
	Update(ctx context.Context, authorizationID string, fn func(a *domain.BookingAttempt) error) (*domain.BookingAttempt, error)
}

// PaymentGateway отмена авторизации депозита
type PaymentGateway interface {
	Void(ctx context.Context, authorizationID string) error
}

// Metrics метрики движка бронирования
type Metrics interface {
	AttemptAborted(reason string)
	Compensation(kind string, ok bool)
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
