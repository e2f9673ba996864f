package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// CatalogClient интерфейс клиента каталога
type CatalogClient interface {
	GetService(ctx context.Context, businessID, serviceID int64) (*domain.ServiceSpec, error)
	GetStaffProfile(ctx context.Context, staffID int64) (*domain.StaffAvailabilityProfile, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListOccupying(ctx context.Context, staffIDs []int64, from, to time.Time) ([]*domain.Booking, error)
}

// PolicyProvider возвращает действующую политику бронирования
type PolicyProvider interface {
	GetEffective(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingPolicy, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
