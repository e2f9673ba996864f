package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/availability"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots"
)

// Planner источник данных движка доступности
type Planner interface {
	Offering(ctx context.Context, businessID, serviceID int64) (*slots.Offering, error)
	StaffOrder(offering *slots.Offering, staffID *int64) ([]int64, error)
	Availability(ctx context.Context, offering *slots.Offering, staffOrder []int64, date, now time.Time) (*availability.Availability, error)
	Location() *time.Location
}

// Metrics метрики выдачи слотов
type Metrics interface {
	SlotsOffered(mode string, count int)
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
