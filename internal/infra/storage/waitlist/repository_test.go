package waitlist

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
)

func TestRepository_Upsert(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	newEntry := func() *domain.WaitlistEntry {
		return &domain.WaitlistEntry{
			BusinessID:     1,
			ServiceID:      2,
			Date:           time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC),
			PreferredRange: domain.TimeRange{Start: "10:00", End: "14:00"},
			Customer:       domain.Customer{Email: "Anna@Example.com", Name: "Anna"},
		}
	}

	tests := []struct {
		name     string
		inserted bool
	}{
		{name: "new entry", inserted: true},
		{name: "resubmission updates", inserted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (business_id, service_id, customer_email, date) DO UPDATE")).
				WithArgs(int64(1), int64(2), "anna@example.com", "Anna", nil, "2026-06-03", "10:00", "14:00").
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "inserted"}).
					AddRow(int64(5), now, now, tt.inserted))

			entry, created, err := NewRepository(db).Upsert(context.Background(), newEntry())
			require.NoError(t, err)
			assert.Equal(t, tt.inserted, created)
			assert.Equal(t, int64(5), entry.ID)
			assert.Equal(t, "anna@example.com", entry.Customer.Email)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("database error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("INSERT INTO waitlist_entries").WillReturnError(sql.ErrConnDone)

		_, _, err = NewRepository(db).Upsert(context.Background(), newEntry())
		assert.ErrorIs(t, err, ErrExecQuery)
	})
}
