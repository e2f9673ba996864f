package join_waitlist

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots"
)

// WaitlistRepository интерфейс для работы с листом ожидания
type WaitlistRepository interface {
	Upsert(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, bool, error)
}

// Planner проверка, что услуга существует у бизнеса
type Planner interface {
	Offering(ctx context.Context, businessID, serviceID int64) (*slots.Offering, error)
	Location() *time.Location
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
