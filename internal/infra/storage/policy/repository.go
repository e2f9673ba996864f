package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBookingService/pkg/psqlbuilder"
)

var policyColumns = []string{
	"id",
	"business_id",
	"service_id",
	"slot_granularity_minutes",
	"min_notice_minutes",
	"advance_booking_days",
	"deposit_threshold",
	"deposit_mode",
	"deposit_fixed_amount",
	"deposit_percent",
	"payment_window_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий политик бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBusinessAndService получает политику конкретного уровня:
// для serviceID == nil ищется политика бизнеса, иначе политика услуги
func (r *Repository) GetByBusinessAndService(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(policyColumns...).
		From("booking_policies").
		Where(squirrel.Eq{"business_id": businessID})

	// Фильтрация по service_id (NULL или конкретное значение)
	if serviceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndService - build select query: %v", ErrBuildQuery, err)
	}

	policy, err := scanPolicy(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessAndService - scan policy: %v", ErrScanRow, err)
	}

	return policy, nil
}

// GetWithHierarchy получает политику с учетом приоритетов:
// 1. Политика конкретной услуги (businessID, serviceID)
// 2. Политика бизнеса (businessID, NULL)
//
// Если политика не найдена ни на одном уровне, возвращает ErrPolicyNotFound
func (r *Repository) GetWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingPolicy, error) {
	// 1. Политика услуги
	if serviceID != nil {
		policy, err := r.GetByBusinessAndService(ctx, businessID, serviceID)
		if err == nil {
			return policy, nil
		}
		if !errors.Is(err, ErrPolicyNotFound) {
			return nil, fmt.Errorf("%w: GetWithHierarchy - level 1 (service): %v", ErrExecQuery, err)
		}
	}

	// 2. Политика бизнеса
	policy, err := r.GetByBusinessAndService(ctx, businessID, nil)
	if err == nil {
		return policy, nil
	}
	if !errors.Is(err, ErrPolicyNotFound) {
		return nil, fmt.Errorf("%w: GetWithHierarchy - level 2 (business): %v", ErrExecQuery, err)
	}

	return nil, ErrPolicyNotFound
}

// ListByBusiness получает все политики бизнеса, общая политика первой
func (r *Repository) ListByBusiness(ctx context.Context, businessID int64) ([]*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(policyColumns...).
		From("booking_policies").
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("service_id ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByBusiness - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	policies := make([]*domain.BookingPolicy, 0)
	for rows.Next() {
		policy, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByBusiness - scan row: %v", ErrScanRow, err)
		}
		policies = append(policies, policy)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByBusiness - rows error: %v", ErrScanRow, err)
	}

	return policies, nil
}

// Upsert создает политику уровня (business_id, service_id) или обновляет существующую
func (r *Repository) Upsert(ctx context.Context, policy *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_policies").
		Columns(
			"business_id",
			"service_id",
			"slot_granularity_minutes",
			"min_notice_minutes",
			"advance_booking_days",
			"deposit_threshold",
			"deposit_mode",
			"deposit_fixed_amount",
			"deposit_percent",
			"payment_window_minutes",
		).
		Values(
			policy.BusinessID,
			policy.ServiceID,
			policy.SlotGranularityMinutes,
			policy.MinNoticeMinutes,
			policy.AdvanceBookingDays,
			policy.DepositThreshold,
			policy.DepositMode,
			policy.DepositFixedAmount,
			policy.DepositPercent,
			policy.PaymentWindowMinutes,
		).
		Suffix(`ON CONFLICT (business_id, (COALESCE(service_id, 0))) DO UPDATE SET
			slot_granularity_minutes = EXCLUDED.slot_granularity_minutes,
			min_notice_minutes = EXCLUDED.min_notice_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			deposit_threshold = EXCLUDED.deposit_threshold,
			deposit_mode = EXCLUDED.deposit_mode,
			deposit_fixed_amount = EXCLUDED.deposit_fixed_amount,
			deposit_percent = EXCLUDED.deposit_percent,
			payment_window_minutes = EXCLUDED.payment_window_minutes,
			updated_at = NOW()
		RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&policy.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return policy, nil
}

// Delete удаляет политику уровня (business_id, service_id)
func (r *Repository) Delete(ctx context.Context, businessID int64, serviceID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete("booking_policies").
		Where(squirrel.Eq{"business_id": businessID})

	if serviceID == nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPolicyNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPolicy(row rowScanner) (*domain.BookingPolicy, error) {
	var (
		p                    domain.BookingPolicy
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&p.ID,
		&p.BusinessID,
		&p.ServiceID,
		&p.SlotGranularityMinutes,
		&p.MinNoticeMinutes,
		&p.AdvanceBookingDays,
		&p.DepositThreshold,
		&p.DepositMode,
		&p.DepositFixedAmount,
		&p.DepositPercent,
		&p.PaymentWindowMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = createdAt.Time
	p.UpdatedAt = updatedAt.Time

	return &p, nil
}
