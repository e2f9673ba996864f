package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Scheduler ставит отложенные задачи истечения попыток
type Scheduler struct {
	client    Enqueuer
	queueName string
}

func NewScheduler(client Enqueuer, queueName string) *Scheduler {
	return &Scheduler{client: client, queueName: queueName}
}

// ScheduleExpiry планирует прерывание попытки в момент at.
// Повторная постановка для той же авторизации не считается ошибкой.
func (s *Scheduler) ScheduleExpiry(ctx context.Context, authorizationID string, at time.Time) error {
	task, opts, err := NewExpireTask(authorizationID, at, s.queueName)
	if err != nil {
		return fmt.Errorf("%w: ScheduleExpiry - build task: %v", ErrEnqueue, err)
	}

	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) || errors.Is(err, asynq.ErrDuplicateTask) {
			return nil
		}
		return fmt.Errorf("%w: ScheduleExpiry - enqueue: %v", ErrEnqueue, err)
	}
	return nil
}
