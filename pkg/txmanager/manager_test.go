package txmanager

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/pkg/dbmetrics"
)

func newManager(t *testing.T) (*Manager, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(dbmetrics.NewDB(db, nil)), mock
}

func TestManager_Do(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		m, mock := newManager(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := m.Do(context.Background(), func(ctx context.Context) error {
			assert.True(t, dbmetrics.IsInTransaction(ctx))
			return nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		m, mock := newManager(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := m.Do(context.Background(), func(ctx context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested call reuses transaction", func(t *testing.T) {
		m, mock := newManager(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := m.Do(context.Background(), func(ctx context.Context) error {
			return m.DoSerializable(ctx, func(ctx context.Context) error { return nil })
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		m, mock := newManager(t)
		mock.ExpectBegin().WillReturnError(errors.New("no connections"))

		err := m.Do(context.Background(), func(ctx context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrTransaction)
	})
}
