package waitlist

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/psqlbuilder"
)

// Repository репозиторий листа ожидания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория листа ожидания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создает запись листа ожидания или обновляет желаемый интервал у существующей.
// Запись уникальна по (business_id, service_id, customer_email, date).
// Второе возвращаемое значение true, если запись создана.
func (r *Repository) Upsert(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	entry.Customer.Email = domain.NormalizeEmail(entry.Customer.Email)

	query, args, err := psqlbuilder.Insert("waitlist_entries").
		Columns(
			"business_id",
			"service_id",
			"customer_email",
			"customer_name",
			"customer_phone",
			"date",
			"preferred_start",
			"preferred_end",
		).
		Values(
			entry.BusinessID,
			entry.ServiceID,
			entry.Customer.Email,
			entry.Customer.Name,
			entry.Customer.Phone,
			entry.Date.Format(domain.DateFormat),
			entry.PreferredRange.Start,
			entry.PreferredRange.End,
		).
		Suffix(`ON CONFLICT (business_id, service_id, customer_email, date) DO UPDATE SET
			customer_name = EXCLUDED.customer_name,
			customer_phone = EXCLUDED.customer_phone,
			preferred_start = EXCLUDED.preferred_start,
			preferred_end = EXCLUDED.preferred_end,
			updated_at = NOW()
		RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`).
		ToSql()

	if err != nil {
		return nil, false, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var (
		createdAt, updatedAt sql.NullTime
		inserted             bool
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&entry.ID,
		&createdAt,
		&updatedAt,
		&inserted,
	)
	if err != nil {
		return nil, false, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	return entry, inserted, nil
}
