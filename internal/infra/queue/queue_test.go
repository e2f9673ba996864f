package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	opts  [][]asynq.Option
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	f.opts = append(f.opts, opts)
	return &asynq.TaskInfo{ID: "x"}, nil
}

type fakeExpirer struct {
	calls []string
	err   error
}

func (f *fakeExpirer) Expire(_ context.Context, authorizationID string) error {
	f.calls = append(f.calls, authorizationID)
	return f.err
}

func optionValue(opts []asynq.Option, typ asynq.OptionType) interface{} {
	for _, o := range opts {
		if o.Type() == typ {
			return o.Value()
		}
	}
	return nil
}

func TestScheduler_ScheduleExpiry(t *testing.T) {
	at := time.Date(2026, 6, 1, 10, 15, 0, 0, time.UTC)

	t.Run("enqueues with task id and queue", func(t *testing.T) {
		enq := &fakeEnqueuer{}
		s := NewScheduler(enq, "booking")

		require.NoError(t, s.ScheduleExpiry(context.Background(), "pi_1", at))
		require.Len(t, enq.tasks, 1)
		assert.Equal(t, TypeExpireAttempt, enq.tasks[0].Type())
		assert.JSONEq(t, `{"authorization_id":"pi_1"}`, string(enq.tasks[0].Payload()))
		assert.Equal(t, "expire:pi_1", optionValue(enq.opts[0], asynq.TaskIDOpt))
		assert.Equal(t, "booking", optionValue(enq.opts[0], asynq.QueueOpt))
		assert.Equal(t, at, optionValue(enq.opts[0], asynq.ProcessAtOpt))
	})

	t.Run("duplicate task id is fine", func(t *testing.T) {
		s := NewScheduler(&fakeEnqueuer{err: asynq.ErrTaskIDConflict}, "booking")
		assert.NoError(t, s.ScheduleExpiry(context.Background(), "pi_1", at))
	})

	t.Run("redis failure", func(t *testing.T) {
		s := NewScheduler(&fakeEnqueuer{err: errors.New("dial tcp: refused")}, "booking")
		assert.ErrorIs(t, s.ScheduleExpiry(context.Background(), "pi_1", at), ErrEnqueue)
	})
}

func TestHandleExpireTask(t *testing.T) {
	t.Run("calls expirer", func(t *testing.T) {
		exp := &fakeExpirer{}
		task, _, err := NewExpireTask("pi_1", time.Now(), "booking")
		require.NoError(t, err)

		require.NoError(t, HandleExpireTask(exp, nopLogger{})(context.Background(), task))
		assert.Equal(t, []string{"pi_1"}, exp.calls)
	})

	t.Run("expirer error is retried", func(t *testing.T) {
		boom := errors.New("boom")
		exp := &fakeExpirer{err: boom}
		task, _, err := NewExpireTask("pi_1", time.Now(), "booking")
		require.NoError(t, err)

		err = HandleExpireTask(exp, nopLogger{})(context.Background(), task)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("bad payload skips retry", func(t *testing.T) {
		exp := &fakeExpirer{}
		task := asynq.NewTask(TypeExpireAttempt, []byte("{"))

		err := HandleExpireTask(exp, nopLogger{})(context.Background(), task)
		assert.ErrorIs(t, err, ErrInvalidPayload)
		assert.ErrorIs(t, err, asynq.SkipRetry)
		assert.Empty(t, exp.calls)
	})
}
