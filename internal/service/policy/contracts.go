package policy

import (
	"context"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/catalog"
)

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	GetByBusinessAndService(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingPolicy, error)
	GetWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingPolicy, error)
	ListByBusiness(ctx context.Context, businessID int64) ([]*domain.BookingPolicy, error)
	Upsert(ctx context.Context, policy *domain.BookingPolicy) (*domain.BookingPolicy, error)
	Delete(ctx context.Context, businessID int64, serviceID *int64) error
}

// CatalogClient интерфейс клиента каталога
type CatalogClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*catalog.Business, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*domain.ServiceSpec, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
