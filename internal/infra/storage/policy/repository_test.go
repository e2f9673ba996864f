package policy

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/ptr"
)

var now = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func policyRow(id int64, serviceID interface{}, granularity int) *sqlmock.Rows {
	return sqlmock.NewRows(policyColumns).AddRow(
		id, int64(1), serviceID, granularity, 60, 30, 50, "percent", int64(0), 20, 15, now, now,
	)
}

const (
	serviceLevel  = "FROM booking_policies WHERE business_id = $1 AND service_id = $2"
	businessLevel = "FROM booking_policies WHERE business_id = $1 AND service_id IS NULL"
)

func TestRepository_GetWithHierarchy(t *testing.T) {
	t.Run("service level wins", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(serviceLevel)).
			WithArgs(int64(1), int64(5)).
			WillReturnRows(policyRow(2, int64(5), 30))

		p, err := repo.GetWithHierarchy(context.Background(), 1, ptr.Ptr(int64(5)))
		require.NoError(t, err)
		assert.True(t, p.IsServiceSpecific())
		assert.Equal(t, 30, p.SlotGranularityMinutes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("falls back to business level", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(serviceLevel)).
			WillReturnRows(sqlmock.NewRows(policyColumns))
		mock.ExpectQuery(regexp.QuoteMeta(businessLevel)).
			WithArgs(int64(1)).
			WillReturnRows(policyRow(1, nil, 15))

		p, err := repo.GetWithHierarchy(context.Background(), 1, ptr.Ptr(int64(5)))
		require.NoError(t, err)
		assert.True(t, p.IsBusinessWide())
		assert.Equal(t, domain.DepositModePercent, p.DepositMode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing configured", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(businessLevel)).
			WillReturnRows(sqlmock.NewRows(policyColumns))

		_, err := repo.GetWithHierarchy(context.Background(), 1, nil)
		assert.ErrorIs(t, err, ErrPolicyNotFound)
	})

	t.Run("database failure is not a miss", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(serviceLevel)).
			WillReturnError(sql.ErrConnDone)

		_, err := repo.GetWithHierarchy(context.Background(), 1, ptr.Ptr(int64(5)))
		assert.ErrorIs(t, err, ErrExecQuery)
		assert.NotErrorIs(t, err, ErrPolicyNotFound)
	})
}

func TestRepository_Upsert(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO booking_policies")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(9), now, now))

	p := domain.DefaultBookingPolicy(1)
	saved, err := repo.Upsert(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(9), saved.ID)
	assert.Equal(t, now, saved.UpdatedAt)
}

func TestRepository_ListByBusiness(t *testing.T) {
	repo, mock := newRepo(t)
	rows := sqlmock.NewRows(policyColumns).
		AddRow(int64(1), int64(1), nil, 15, 60, 0, 50, "percent", int64(0), 20, 15, now, now).
		AddRow(int64(2), int64(1), int64(5), 30, 60, 0, 40, "fixed", int64(1500), 0, 10, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY service_id ASC NULLS FIRST")).WillReturnRows(rows)

	list, err := repo.ListByBusiness(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[0].ServiceID)
	assert.Equal(t, domain.DepositModeFixed, list[1].DepositMode)
	assert.Equal(t, int64(1500), list[1].DepositFixedAmount)
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM booking_policies")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrPolicyNotFound)
}
