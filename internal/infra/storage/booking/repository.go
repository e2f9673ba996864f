package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/psqlbuilder"
)

// Коды ошибок Postgres
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

var bookingColumns = []string{
	"id",
	"business_id",
	"service_id",
	"staff_id",
	"customer_email",
	"customer_name",
	"customer_phone",
	"start_at",
	"end_at",
	"status",
	"payment_status",
	"payment_authorization_id",
	"captured_amount",
	"risk_score",
	"risk_factors",
	"deposit_required",
	"deposit_amount",
	"deposit_reason",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Ограничение bookings_no_overlap в БД отклоняет пересекающиеся занимающие
// бронирования мастера, такая ошибка возвращается как ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	factors := booking.Risk.Factors
	if factors == nil {
		factors = []string{}
	}

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"business_id",
			"service_id",
			"staff_id",
			"customer_email",
			"customer_name",
			"customer_phone",
			"start_at",
			"end_at",
			"status",
			"payment_status",
			"payment_authorization_id",
			"captured_amount",
			"risk_score",
			"risk_factors",
			"deposit_required",
			"deposit_amount",
			"deposit_reason",
			"notes",
		).
		Values(
			booking.BusinessID,
			booking.ServiceID,
			booking.StaffID,
			domain.NormalizeEmail(booking.Customer.Email),
			booking.Customer.Name,
			booking.Customer.Phone,
			booking.StartAt.UTC(),
			booking.EndAt.UTC(),
			booking.Status,
			booking.Payment.Status,
			booking.Payment.AuthorizationID,
			booking.Payment.CapturedAmount,
			booking.Risk.Score,
			pq.Array(factors),
			booking.Risk.DepositRequired,
			booking.Risk.DepositAmount,
			booking.Risk.DepositReason,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case pgExclusionViolation:
				return nil, ErrSlotTaken
			case pgUniqueViolation:
				return nil, ErrDuplicateAuthorization
			}
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.Customer.Email = domain.NormalizeEmail(booking.Customer.Email)
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"id": id})
}

// GetByAuthorizationID получает бронирование, созданное по авторизации платежа
func (r *Repository) GetByAuthorizationID(ctx context.Context, authorizationID string) (*domain.Booking, error) {
	return r.getOne(ctx, "GetByAuthorizationID", squirrel.Eq{"payment_authorization_id": authorizationID})
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Eq) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(where).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan booking: %v", ErrScanRow, op, err)
	}

	return booking, nil
}

// ListOccupying возвращает занимающие бронирования мастеров, пересекающиеся с [from, to).
// Внутри транзакции строки блокируются FOR UPDATE.
func (r *Repository) ListOccupying(ctx context.Context, staffIDs []int64, from, to time.Time) ([]*domain.Booking, error) {
	if len(staffIDs) == 0 {
		return []*domain.Booking{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"staff_id": staffIDs}).
		Where(squirrel.Eq{"status": statusStrings(domain.OccupyingStatuses)}).
		Where(squirrel.Lt{"start_at": to.UTC()}).
		Where(squirrel.Gt{"end_at": from.UTC()}).
		OrderBy("start_at ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOccupying - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOccupying - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// List получает бронирования бизнеса по фильтру
//
// Примеры:
// 1. Календарь мастера на день:
//    filter := domain.BookingsFilter{BusinessID: 1, StaffID: &staffID, From: &dayStart, To: &dayEnd}
// 2. Все бронирования включая отменённые:
//    filter := domain.BookingsFilter{BusinessID: 1, IncludeInactive: true}
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"business_id": filter.BusinessID})

	if filter.StaffID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": *filter.StaffID})
	}
	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"start_at": filter.From.UTC()})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"start_at": filter.To.UTC()})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": statusStrings(domain.OccupyingStatuses)})
	}

	query, args, err := selectBuilder.OrderBy("start_at ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// LockStaff берет транзакционную advisory-блокировку на мастера.
// Фиксации бронирований одного мастера выполняются строго по очереди.
func (r *Repository) LockStaff(ctx context.Context, staffID int64) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: LockStaff", ErrTransaction)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)
	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", staffID); err != nil {
		return fmt.Errorf("%w: LockStaff - execute: %v", ErrExecQuery, err)
	}
	return nil
}

// Cancel отменяет бронирование с указанием причины.
// Строка меняется, только если бронирование еще в отменяемом статусе,
// иначе возвращается ErrNotCancellable.
func (r *Repository) Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason *string, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("cancelled_at", at.UTC()).
		Set("updated_at", at.UTC()).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": statusStrings(domain.CancellableStatuses)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return r.missingOrSettled(ctx, "Cancel", id)
	}

	return nil
}

// missingOrSettled различает отсутствующее бронирование и уже измененное
func (r *Repository) missingOrSettled(ctx context.Context, op string, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: %s - build exists query: %v", ErrBuildQuery, op, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %s - execute exists query: %v", ErrExecQuery, op, err)
	}

	return ErrNotCancellable
}

// UpdatePaymentStatus меняет статус депозита бронирования
func (r *Repository) UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("payment_status", status).
		Set("updated_at", at.UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdatePaymentStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// CustomerHistory считает историю клиента в бизнесе для оценки риска
func (r *Repository) CustomerHistory(ctx context.Context, businessID int64, email string) (domain.CustomerHistory, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"COUNT(*)",
		"COUNT(*) FILTER (WHERE status = 'completed')",
		"COUNT(*) FILTER (WHERE status = 'no_show')",
		"MIN(created_at)",
	).
		From("bookings").
		Where(squirrel.Eq{"business_id": businessID}).
		Where(squirrel.Eq{"customer_email": domain.NormalizeEmail(email)}).
		ToSql()

	if err != nil {
		return domain.CustomerHistory{}, fmt.Errorf("%w: CustomerHistory - build select query: %v", ErrBuildQuery, err)
	}

	var (
		history   domain.CustomerHistory
		firstSeen sql.NullTime
	)
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&history.BookingCount,
		&history.CompletedCount,
		&history.NoShowCount,
		&firstSeen,
	)
	if err != nil {
		return domain.CustomerHistory{}, fmt.Errorf("%w: CustomerHistory - scan: %v", ErrScanRow, err)
	}

	if firstSeen.Valid {
		t := firstSeen.Time
		history.FirstSeenAt = &t
	}

	return history, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		b                    domain.Booking
		factors              []string
		cancelledAt          sql.NullTime
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&b.ID,
		&b.BusinessID,
		&b.ServiceID,
		&b.StaffID,
		&b.Customer.Email,
		&b.Customer.Name,
		&b.Customer.Phone,
		&b.StartAt,
		&b.EndAt,
		&b.Status,
		&b.Payment.Status,
		&b.Payment.AuthorizationID,
		&b.Payment.CapturedAmount,
		&b.Risk.Score,
		pq.Array(&factors),
		&b.Risk.DepositRequired,
		&b.Risk.DepositAmount,
		&b.Risk.DepositReason,
		&b.Notes,
		&b.CancellationReason,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Risk.Factors = factors
	if cancelledAt.Valid {
		t := cancelledAt.Time
		b.CancelledAt = &t
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
