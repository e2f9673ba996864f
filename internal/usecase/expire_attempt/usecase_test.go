package expire_attempt

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
)

type fakeMetrics struct {
	aborted []string
	voids   map[bool]int
}

func (m *fakeMetrics) AttemptAborted(reason string) { m.aborted = append(m.aborted, reason) }

func (m *fakeMetrics) Compensation(_ string, ok bool) {
	if m.voids == nil {
		m.voids = map[bool]int{}
	}
	m.voids[ok]++
}

var openedAt = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

type env struct {
	attempts *fakes.Attempts
	gateway  *payments.FakeGateway
	clock    *fakes.Clock
	metrics  *fakeMetrics
	uc       *UseCase
	authID   string
}

func newEnv(t *testing.T, state domain.AttemptState) *env {
	t.Helper()
	e := &env{
		attempts: fakes.NewAttempts(),
		gateway:  payments.NewFakeGateway(),
		clock:    fakes.NewClock(openedAt),
		metrics:  &fakeMetrics{},
	}
	auth, err := e.gateway.Authorize(context.Background(), payments.AuthorizeRequest{Amount: 4000, Currency: "usd"})
	require.NoError(t, err)
	e.authID = auth.ID

	require.NoError(t, e.attempts.Create(context.Background(), &domain.BookingAttempt{
		ID:              "a1",
		AuthorizationID: auth.ID,
		State:           state,
		DepositAmount:   4000,
		ExpiresAt:       openedAt.Add(15 * time.Minute),
	}))

	e.uc = NewUseCase(e.attempts, e.gateway, e.metrics, &fakes.Logger{})
	e.uc.timeProvider = e.clock
	return e
}

func (e *env) state(t *testing.T) *domain.BookingAttempt {
	t.Helper()
	a, err := e.attempts.Get(context.Background(), e.authID)
	require.NoError(t, err)
	return a
}

func TestExpire_AbortsAndVoids(t *testing.T) {
	e := newEnv(t, domain.AttemptAwaitingPayment)
	e.clock.Advance(15 * time.Minute)

	require.NoError(t, e.uc.Expire(context.Background(), e.authID))

	a := e.state(t)
	assert.Equal(t, domain.AttemptAborted, a.State)
	assert.Equal(t, domain.AbortReasonExpired, a.FailureReason)
	assert.Equal(t, payments.StatusVoided, e.gateway.Status(e.authID))
	assert.Equal(t, []string{domain.AbortReasonExpired}, e.metrics.aborted)

	// Повторная доставка задачи безопасна
	require.NoError(t, e.uc.Expire(context.Background(), e.authID))
	assert.Equal(t, payments.StatusVoided, e.gateway.Status(e.authID))
}

func TestExpire_TooEarly(t *testing.T) {
	e := newEnv(t, domain.AttemptAwaitingPayment)
	e.clock.Advance(14 * time.Minute)

	err := e.uc.Expire(context.Background(), e.authID)
	assert.ErrorIs(t, err, ErrNotYetExpired)
	assert.Equal(t, domain.AttemptAwaitingPayment, e.state(t).State)
	assert.Equal(t, payments.StatusAuthorized, e.gateway.Status(e.authID))
}

func TestExpire_LeavesOtherStatesAlone(t *testing.T) {
	for _, state := range []domain.AttemptState{domain.AttemptCommitting, domain.AttemptBooked} {
		t.Run(string(state), func(t *testing.T) {
			e := newEnv(t, state)
			e.clock.Advance(time.Hour)

			require.NoError(t, e.uc.Expire(context.Background(), e.authID))
			assert.Equal(t, state, e.state(t).State)
			assert.Equal(t, payments.StatusAuthorized, e.gateway.Status(e.authID))
			assert.Empty(t, e.metrics.aborted)
		})
	}
}

func TestExpire_MissingAttempt(t *testing.T) {
	e := newEnv(t, domain.AttemptAwaitingPayment)
	assert.NoError(t, e.uc.Expire(context.Background(), "unknown"))
}

func TestExpire_VoidFailureIsRetried(t *testing.T) {
	e := newEnv(t, domain.AttemptAwaitingPayment)
	e.clock.Advance(20 * time.Minute)
	e.gateway.SetFailures(false, false, true, false)

	err := e.uc.Expire(context.Background(), e.authID)
	assert.ErrorIs(t, err, ErrVoidFailed)
	assert.Equal(t, domain.AttemptAborted, e.state(t).State)
	assert.Equal(t, 1, e.metrics.voids[false])

	// Повтор задачи после восстановления шлюза отменяет авторизацию
	e.gateway.SetFailures(false, false, false, false)
	require.NoError(t, e.uc.Expire(context.Background(), e.authID))
	assert.Equal(t, payments.StatusVoided, e.gateway.Status(e.authID))
}

func TestExpire_StoreFailure(t *testing.T) {
	e := newEnv(t, domain.AttemptAwaitingPayment)
	e.attempts.UpdateErr = errors.New("redis: connection refused")

	err := e.uc.Expire(context.Background(), e.authID)
	assert.ErrorIs(t, err, ErrInternal)
}
