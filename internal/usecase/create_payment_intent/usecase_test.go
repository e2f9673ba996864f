package create_payment_intent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/fakes"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/payments"
	"github.com/m04kA/SMC-SalonBookingService/internal/risk"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots"
	"github.com/m04kA/SMC-SalonBookingService/pkg/ptr"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

var (
	now     = time.Date(2026, 5, 30, 9, 0, 0, 0, time.UTC)
	startAt = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC) // понедельник
)

type env struct {
	catalog   *fakes.Catalog
	bookings  *fakes.Bookings
	attempts  *fakes.Attempts
	scheduler *fakes.Scheduler
	gateway   *payments.FakeGateway
	uc        *UseCase
}

type failingAttempts struct{}

func (failingAttempts) Create(context.Context, *domain.BookingAttempt) error {
	return errors.New("redis down")
}

func newEnv(price int64) *env {
	e := &env{
		catalog:   fakes.NewCatalog(),
		bookings:  fakes.NewBookings(),
		attempts:  fakes.NewAttempts(),
		scheduler: fakes.NewScheduler(),
		gateway:   payments.NewFakeGateway(),
	}

	p := &domain.StaffAvailabilityProfile{StaffID: 1}
	p.Days[time.Monday] = domain.WorkingDay{IsWorking: true, Start: types.TimeString("09:00"), End: types.TimeString("17:00")}
	e.catalog.AddProfile(p)
	e.catalog.AddService(&domain.ServiceSpec{ID: 10, BusinessID: 1, Name: "Окрашивание", DurationMinutes: 60, PriceCents: price, EligibleStaffIDs: []int64{1}})

	planner := slots.NewPlanner(e.catalog, e.bookings, &fakes.Policies{}, time.UTC, &fakes.Logger{})
	e.uc = NewUseCase(planner, e.bookings, e.gateway, e.attempts, e.scheduler, risk.DefaultWeights(), "usd", &fakes.Logger{})
	e.uc.timeProvider = fakes.NewClock(now)
	return e
}

func TestExecute_DepositRequired(t *testing.T) {
	e := newEnv(20000)

	resp, err := e.uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		StartAt:    startAt,
		Customer:   &Customer{Email: "New@Example.com", Name: "Новый клиент"},
	})
	require.NoError(t, err)

	// база 10 + первая запись 25 + дорогая услуга 15
	assert.Equal(t, 50, resp.RiskScore)
	assert.True(t, resp.DepositRequired)
	assert.Equal(t, int64(4000), resp.DepositAmount)
	assert.NotEmpty(t, resp.DepositReason)
	require.NotNil(t, resp.AuthorizationID)
	require.NotNil(t, resp.ClientSecret)
	require.NotNil(t, resp.ExpiresAt)
	assert.Equal(t, now.Add(15*time.Minute), *resp.ExpiresAt)
	assert.Equal(t, int64(1), resp.StaffID)

	a, err := e.attempts.Get(context.Background(), *resp.AuthorizationID)
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptAwaitingPayment, a.State)
	assert.Equal(t, "new@example.com", a.Customer.Email)
	assert.Equal(t, int64(4000), a.DepositAmount)
	assert.Equal(t, startAt.Add(time.Hour), a.EndAt)

	assert.Equal(t, *resp.ExpiresAt, e.scheduler.Scheduled[*resp.AuthorizationID])
	assert.Equal(t, payments.StatusAuthorized, e.gateway.Status(*resp.AuthorizationID))
}

func TestExecute_NoDeposit(t *testing.T) {
	e := newEnv(5000)

	resp, err := e.uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, StartAt: startAt})
	require.NoError(t, err)

	assert.False(t, resp.DepositRequired)
	assert.Zero(t, resp.DepositAmount)
	assert.Nil(t, resp.AuthorizationID)
	assert.Nil(t, resp.ExpiresAt)
	assert.Empty(t, e.scheduler.Scheduled)
}

func TestExecute_LoyalCustomerSkipsDeposit(t *testing.T) {
	e := newEnv(20000)
	for i := 0; i < 5; i++ {
		e.bookings.Add(&domain.Booking{
			BusinessID: 1,
			StaffID:    2,
			Customer:   domain.Customer{Email: "regular@example.com"},
			StartAt:    now.AddDate(0, -i-1, 0),
			EndAt:      now.AddDate(0, -i-1, 0).Add(time.Hour),
			Status:     domain.StatusCompleted,
			CreatedAt:  now.AddDate(-1, 0, 0),
		})
	}

	resp, err := e.uc.Execute(context.Background(), &Request{
		BusinessID: 1,
		ServiceID:  10,
		StartAt:    startAt,
		Customer:   &Customer{Email: "regular@example.com"},
	})
	require.NoError(t, err)
	assert.False(t, resp.DepositRequired)
	assert.Contains(t, resp.RiskFactors, risk.FactorLoyalCustomer)
}

func TestExecute_SlotNotAvailable(t *testing.T) {
	e := newEnv(20000)
	e.bookings.Add(&domain.Booking{BusinessID: 1, StaffID: 1, StartAt: startAt, EndAt: startAt.Add(time.Hour), Status: domain.StatusConfirmed})

	_, err := e.uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, StartAt: startAt})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	_, err = e.uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, StartAt: startAt.Add(7 * time.Minute)})
	assert.ErrorIs(t, err, ErrSlotNotAvailable, "start off the grid")

	_, err = e.uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, StaffID: ptr.Ptr(int64(5)), StartAt: startAt.Add(time.Hour)})
	assert.ErrorIs(t, err, ErrStaffNotEligible)
}

func TestExecute_AuthorizationFailures(t *testing.T) {
	req := &Request{BusinessID: 1, ServiceID: 10, StartAt: startAt}

	t.Run("gateway declines", func(t *testing.T) {
		e := newEnv(20000)
		e.gateway.SetFailures(true, false, false, false)

		_, err := e.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrPaymentFailed)
	})

	t.Run("attempt not saved voids authorization", func(t *testing.T) {
		e := newEnv(20000)
		e.uc.attempts = failingAttempts{}

		_, err := e.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("scheduler failure is tolerated", func(t *testing.T) {
		e := newEnv(20000)
		e.scheduler.Err = errors.New("queue down")

		resp, err := e.uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.NotNil(t, resp.AuthorizationID)
	})
}

func TestExecute_Validation(t *testing.T) {
	e := newEnv(20000)

	_, err := e.uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, StartAt: startAt, Customer: &Customer{Email: "nope"}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = e.uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 99, StartAt: startAt})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}
