package queue

import (
	"context"

	"github.com/hibiken/asynq"
)

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Enqueuer реализуется *asynq.Client
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AttemptExpirer прерывает попытку, у которой истекло окно оплаты
type AttemptExpirer interface {
	Expire(ctx context.Context, authorizationID string) error
}
