package bookings

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/fakes"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/catalog"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/payments"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-SalonBookingService/pkg/ptr"
)

const managerID = int64(42)

var startAt = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

type env struct {
	bookings *fakes.Bookings
	catalog  *fakes.Catalog
	gateway  *payments.FakeGateway
	attempts *fakes.Attempts
	logger   *fakes.Logger
	svc      *Service
}

func newEnv() *env {
	e := &env{
		bookings: fakes.NewBookings(),
		catalog:  fakes.NewCatalog().AddBusiness(&catalog.Business{ID: 1, Timezone: "Europe/Moscow", ManagerIDs: []int64{managerID}}),
		gateway:  payments.NewFakeGateway(),
		attempts: fakes.NewAttempts(),
		logger:   &fakes.Logger{},
	}
	e.svc = NewService(e.bookings, e.catalog, e.gateway, e.attempts, time.UTC, e.logger)
	e.svc.timeProvider = fakes.NewClock(time.Date(2026, 5, 31, 12, 0, 0, 0, time.UTC))
	return e
}

func (e *env) addBooking(start time.Time, status domain.BookingStatus) *domain.Booking {
	return e.bookings.Add(&domain.Booking{
		BusinessID: 1,
		ServiceID:  10,
		StaffID:    1,
		Customer:   domain.Customer{Email: "anna@example.com", Name: "Анна"},
		StartAt:    start,
		EndAt:      start.Add(time.Hour),
		Status:     status,
		Payment:    domain.Payment{Status: domain.PaymentNotRequired},
	})
}

// addPaidBooking бронирование со списанным депозитом и попыткой в booked
func (e *env) addPaidBooking(t *testing.T) *domain.Booking {
	t.Helper()
	ctx := context.Background()
	auth, err := e.gateway.Authorize(ctx, payments.AuthorizeRequest{Amount: 4000})
	require.NoError(t, err)
	require.NoError(t, e.gateway.Capture(ctx, auth.ID, 4000))
	require.NoError(t, e.attempts.Create(ctx, &domain.BookingAttempt{AuthorizationID: auth.ID, State: domain.AttemptBooked}))

	b := e.addBooking(startAt, domain.StatusConfirmed)
	b.Payment = domain.Payment{Status: domain.PaymentCaptured, AuthorizationID: &auth.ID, CapturedAmount: 4000}
	return b
}

func TestService_GetByID(t *testing.T) {
	e := newEnv()
	b := e.addBooking(startAt, domain.StatusConfirmed)
	ctx := context.Background()

	resp, err := e.svc.GetByID(ctx, &models.GetBookingRequest{BookingID: b.ID, CustomerEmail: ptr.Ptr("ANNA@example.com")})
	require.NoError(t, err)
	assert.Equal(t, b.ID, resp.ID)

	_, err = e.svc.GetByID(ctx, &models.GetBookingRequest{BookingID: b.ID, UserID: ptr.Ptr(managerID)})
	assert.NoError(t, err)

	_, err = e.svc.GetByID(ctx, &models.GetBookingRequest{BookingID: b.ID, UserID: ptr.Ptr(int64(7))})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = e.svc.GetByID(ctx, &models.GetBookingRequest{BookingID: b.ID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = e.svc.GetByID(ctx, &models.GetBookingRequest{BookingID: 999, UserID: ptr.Ptr(managerID)})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_ListByBusiness(t *testing.T) {
	e := newEnv()
	ctx := context.Background()

	// 2026-06-01 00:30 по Москве это 2026-05-31 21:30 UTC
	e.addBooking(time.Date(2026, 5, 31, 21, 30, 0, 0, time.UTC), domain.StatusConfirmed)
	e.addBooking(startAt, domain.StatusPending)
	e.addBooking(startAt.Add(2*time.Hour), domain.StatusCancelledByCustomer)
	e.addBooking(startAt.AddDate(0, 0, 1), domain.StatusConfirmed)

	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("day in business timezone", func(t *testing.T) {
		resp, err := e.svc.ListByBusiness(ctx, &models.ListBookingsRequest{UserID: managerID, BusinessID: 1, Date: &date})
		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 2)
	})

	t.Run("including cancelled", func(t *testing.T) {
		resp, err := e.svc.ListByBusiness(ctx, &models.ListBookingsRequest{UserID: managerID, BusinessID: 1, Date: &date, IncludeInactive: true})
		require.NoError(t, err)
		assert.Len(t, resp.Bookings, 3)
	})

	t.Run("by status", func(t *testing.T) {
		resp, err := e.svc.ListByBusiness(ctx, &models.ListBookingsRequest{UserID: managerID, BusinessID: 1, Status: ptr.Ptr("pending")})
		require.NoError(t, err)
		require.Len(t, resp.Bookings, 1)
		assert.Equal(t, "pending", resp.Bookings[0].Status)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := e.svc.ListByBusiness(ctx, &models.ListBookingsRequest{UserID: managerID, BusinessID: 1, Status: ptr.Ptr("lost")})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("not a manager", func(t *testing.T) {
		_, err := e.svc.ListByBusiness(ctx, &models.ListBookingsRequest{UserID: 7, BusinessID: 1})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown business", func(t *testing.T) {
		_, err := e.svc.ListByBusiness(ctx, &models.ListBookingsRequest{UserID: managerID, BusinessID: 5})
		assert.ErrorIs(t, err, ErrBusinessNotFound)
	})
}

func TestService_Cancel_ByCustomerKeepsDeposit(t *testing.T) {
	e := newEnv()
	b := e.addPaidBooking(t)

	resp, err := e.svc.Cancel(context.Background(), &models.CancelBookingRequest{
		BookingID:     b.ID,
		CancelledBy:   models.CancelledByCustomer,
		CustomerEmail: ptr.Ptr("anna@example.com"),
		Reason:        ptr.Ptr("заболела"),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelledByCustomer), resp.Status)
	assert.Equal(t, string(domain.PaymentCaptured), resp.PaymentStatus)
	require.NotNil(t, resp.CancelledAt)
	assert.Equal(t, payments.StatusCaptured, e.gateway.Status(*b.Payment.AuthorizationID))

	a, err := e.attempts.Get(context.Background(), *b.Payment.AuthorizationID)
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptCancelled, a.State)
}

func TestService_Cancel_ByBusinessRefunds(t *testing.T) {
	e := newEnv()
	b := e.addPaidBooking(t)

	resp, err := e.svc.Cancel(context.Background(), &models.CancelBookingRequest{
		BookingID:   b.ID,
		CancelledBy: models.CancelledByBusiness,
		UserID:      ptr.Ptr(managerID),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelledByBusiness), resp.Status)
	assert.Equal(t, string(domain.PaymentRefunded), resp.PaymentStatus)
	assert.Equal(t, payments.StatusRefunded, e.gateway.Status(*b.Payment.AuthorizationID))
}

// countingGateway считает вызовы Refund
type countingGateway struct {
	*payments.FakeGateway
	refunds atomic.Int32
}

func (g *countingGateway) Refund(ctx context.Context, authorizationID string, amount int64) error {
	g.refunds.Add(1)
	return g.FakeGateway.Refund(ctx, authorizationID, amount)
}

func TestService_Cancel_ConcurrentBusinessCancelsRefundOnce(t *testing.T) {
	e := newEnv()
	b := e.addPaidBooking(t)
	gateway := &countingGateway{FakeGateway: e.gateway}
	e.svc.gateway = gateway

	const workers = 8
	var (
		wg        sync.WaitGroup
		cancelled atomic.Int32
		rejected  atomic.Int32
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.svc.Cancel(context.Background(), &models.CancelBookingRequest{
				BookingID:   b.ID,
				CancelledBy: models.CancelledByBusiness,
				UserID:      ptr.Ptr(managerID),
			})
			switch {
			case err == nil:
				cancelled.Add(1)
			case errors.Is(err, ErrCannotCancel):
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), cancelled.Load())
	assert.Equal(t, int32(workers-1), rejected.Load())
	assert.Equal(t, int32(1), gateway.refunds.Load())
	assert.Equal(t, payments.StatusRefunded, e.gateway.Status(*b.Payment.AuthorizationID))
}

func TestService_Cancel_RefundFailureKeepsCancellation(t *testing.T) {
	e := newEnv()
	b := e.addPaidBooking(t)
	e.gateway.SetFailures(false, false, false, true)

	resp, err := e.svc.Cancel(context.Background(), &models.CancelBookingRequest{
		BookingID:   b.ID,
		CancelledBy: models.CancelledByBusiness,
		UserID:      ptr.Ptr(managerID),
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelledByBusiness), resp.Status)
	assert.Equal(t, string(domain.PaymentCaptured), resp.PaymentStatus)
	assert.True(t, e.logger.Contains("ERROR", "manual refund required"))
}

func TestService_Cancel_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.BookingStatus
		req     func(id int64) *models.CancelBookingRequest
		wantErr error
	}{
		{
			name:   "other customer",
			status: domain.StatusConfirmed,
			req: func(id int64) *models.CancelBookingRequest {
				return &models.CancelBookingRequest{BookingID: id, CancelledBy: models.CancelledByCustomer, CustomerEmail: ptr.Ptr("bob@example.com")}
			},
			wantErr: ErrAccessDenied,
		},
		{
			name:   "business without user",
			status: domain.StatusConfirmed,
			req: func(id int64) *models.CancelBookingRequest {
				return &models.CancelBookingRequest{BookingID: id, CancelledBy: models.CancelledByBusiness}
			},
			wantErr: ErrAccessDenied,
		},
		{
			name:   "not a manager",
			status: domain.StatusConfirmed,
			req: func(id int64) *models.CancelBookingRequest {
				return &models.CancelBookingRequest{BookingID: id, CancelledBy: models.CancelledByBusiness, UserID: ptr.Ptr(int64(7))}
			},
			wantErr: ErrAccessDenied,
		},
		{
			name:   "unknown initiator",
			status: domain.StatusConfirmed,
			req: func(id int64) *models.CancelBookingRequest {
				return &models.CancelBookingRequest{BookingID: id, CancelledBy: "robot"}
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:   "already completed",
			status: domain.StatusCompleted,
			req: func(id int64) *models.CancelBookingRequest {
				return &models.CancelBookingRequest{BookingID: id, CancelledBy: models.CancelledByCustomer, CustomerEmail: ptr.Ptr("anna@example.com")}
			},
			wantErr: ErrCannotCancel,
		},
		{
			name:   "not found",
			status: domain.StatusConfirmed,
			req: func(int64) *models.CancelBookingRequest {
				return &models.CancelBookingRequest{BookingID: 999, CancelledBy: models.CancelledByCustomer}
			},
			wantErr: ErrBookingNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv()
			b := e.addBooking(startAt, tt.status)

			_, err := e.svc.Cancel(context.Background(), tt.req(b.ID))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_CatalogFailure(t *testing.T) {
	e := newEnv()
	e.catalog.Err = errors.New("timeout")

	_, err := e.svc.ListByBusiness(context.Background(), &models.ListBookingsRequest{UserID: managerID, BusinessID: 1})
	assert.ErrorIs(t, err, ErrInternal)
}
