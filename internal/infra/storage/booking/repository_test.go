package booking

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
)

func newRepo(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), db, mock
}

var start = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func newBooking() *domain.Booking {
	return &domain.Booking{
		BusinessID: 1,
		ServiceID:  2,
		StaffID:    3,
		Customer:   domain.Customer{Email: " Anna@Example.com ", Name: "Anna"},
		StartAt:    start,
		EndAt:      start.Add(time.Hour),
		Status:     domain.StatusConfirmed,
		Payment:    domain.Payment{Status: domain.PaymentNotRequired},
		Risk:       domain.RiskAssessment{Score: 10, Factors: []string{"base"}},
	}
}

func bookingRow(id int64, status domain.BookingStatus) *sqlmock.Rows {
	return sqlmock.NewRows(bookingColumns).AddRow(
		id, int64(1), int64(2), int64(3),
		"anna@example.com", "Anna", nil,
		start, start.Add(time.Hour),
		string(status), string(domain.PaymentNotRequired), nil, int64(0),
		10, "{base,first_time}", false, int64(0), "",
		nil, nil, nil,
		start, start,
	)
}

func TestRepository_Create(t *testing.T) {
	t.Run("returns generated id and normalizes email", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(42), start, start))

		b, err := repo.Create(context.Background(), newBooking())
		require.NoError(t, err)
		assert.Equal(t, int64(42), b.ID)
		assert.Equal(t, "anna@example.com", b.Customer.Email)
		assert.Equal(t, start, b.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exclusion violation maps to slot taken", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
			WillReturnError(&pq.Error{Code: pgExclusionViolation})

		_, err := repo.Create(context.Background(), newBooking())
		assert.ErrorIs(t, err, ErrSlotTaken)
	})

	t.Run("unique violation maps to duplicate authorization", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
			WillReturnError(&pq.Error{Code: pgUniqueViolation})

		_, err := repo.Create(context.Background(), newBooking())
		assert.ErrorIs(t, err, ErrDuplicateAuthorization)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
			WillReturnError(sql.ErrConnDone)

		_, err := repo.Create(context.Background(), newBooking())
		assert.ErrorIs(t, err, ErrExecQuery)
	})
}

func TestRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
			WithArgs(int64(7)).
			WillReturnRows(bookingRow(7, domain.StatusConfirmed))

		b, err := repo.GetByID(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), b.ID)
		assert.Equal(t, domain.StatusConfirmed, b.Status)
		assert.Equal(t, []string{"base", "first_time"}, b.Risk.Factors)
		assert.Nil(t, b.Customer.Phone)
		assert.Nil(t, b.CancelledAt)
	})

	t.Run("not found", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
			WillReturnRows(sqlmock.NewRows(bookingColumns))

		_, err := repo.GetByID(context.Background(), 7)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestRepository_ListOccupying(t *testing.T) {
	t.Run("no staff returns empty without query", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		list, err := repo.ListOccupying(context.Background(), nil, start, start.Add(time.Hour))
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("locks rows inside transaction", func(t *testing.T) {
		repo, db, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`FROM bookings WHERE staff_id IN \(\$1\).*FOR UPDATE`).
			WillReturnRows(bookingRow(1, domain.StatusPending))
		mock.ExpectRollback()

		tx, err := db.Begin()
		require.NoError(t, err)
		ctx := dbmetrics.WithTx(context.Background(), tx)

		list, err := repo.ListOccupying(ctx, []int64{3}, start, start.Add(time.Hour))
		require.NoError(t, err)
		assert.Len(t, list, 1)
		require.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_LockStaff(t *testing.T) {
	t.Run("requires transaction", func(t *testing.T) {
		repo, _, _ := newRepo(t)
		assert.ErrorIs(t, repo.LockStaff(context.Background(), 3), ErrTransaction)
	})

	t.Run("takes advisory lock", func(t *testing.T) {
		repo, db, mock := newRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock($1)")).
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		tx, err := db.Begin()
		require.NoError(t, err)
		require.NoError(t, repo.LockStaff(dbmetrics.WithTx(context.Background(), tx), 3))
		require.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Cancel(t *testing.T) {
	reason := "заболел"

	t.Run("updates only cancellable row", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1, cancellation_reason = $2, cancelled_at = $3, updated_at = $4 WHERE id = $5 AND status IN ($6,$7)")).
			WithArgs("cancelled_by_customer", reason, start, start, int64(7), "pending", "confirmed").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Cancel(context.Background(), 7, domain.StatusCancelledByCustomer, &reason, start)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM bookings WHERE id = $1")).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

		err := repo.Cancel(context.Background(), 7, domain.StatusCancelledByCustomer, nil, start)
		assert.ErrorIs(t, err, ErrBookingNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already cancelled row", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM bookings WHERE id = $1")).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		err := repo.Cancel(context.Background(), 7, domain.StatusCancelledByBusiness, nil, start)
		assert.ErrorIs(t, err, ErrNotCancellable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_UpdatePaymentStatus(t *testing.T) {
	repo, _, mock := newRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET payment_status = $1, updated_at = $2 WHERE id = $3")).
		WithArgs("refunded", start, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePaymentStatus(context.Background(), 7, domain.PaymentRefunded, start))

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdatePaymentStatus(context.Background(), 8, domain.PaymentRefunded, start)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CustomerHistory(t *testing.T) {
	t.Run("returning customer", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		first := start.AddDate(0, -3, 0)
		mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE business_id = $1 AND customer_email = $2")).
			WithArgs(int64(1), "anna@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"count", "completed", "no_show", "min"}).AddRow(5, 3, 1, first))

		h, err := repo.CustomerHistory(context.Background(), 1, "ANNA@example.com")
		require.NoError(t, err)
		assert.Equal(t, 5, h.BookingCount)
		assert.Equal(t, 3, h.CompletedCount)
		assert.Equal(t, 1, h.NoShowCount)
		require.NotNil(t, h.FirstSeenAt)
		assert.Equal(t, first, *h.FirstSeenAt)
	})

	t.Run("new customer", func(t *testing.T) {
		repo, _, mock := newRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("FROM bookings")).
			WillReturnRows(sqlmock.NewRows([]string{"count", "completed", "no_show", "min"}).AddRow(0, 0, 0, nil))

		h, err := repo.CustomerHistory(context.Background(), 1, "new@example.com")
		require.NoError(t, err)
		assert.True(t, h.IsFirstTime())
		assert.Nil(t, h.FirstSeenAt)
	})
}
