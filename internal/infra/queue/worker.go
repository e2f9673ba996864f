package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// NewServer создает asynq сервер, обрабатывающий очередь бронирований
func NewServer(opt asynq.RedisClientOpt, queueName string, concurrency int) *asynq.Server {
	return asynq.NewServer(
		opt,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				queueName: 1,
			},
		},
	)
}

// NewServeMux регистрирует обработчики задач
func NewServeMux(expirer AttemptExpirer, log Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeExpireAttempt, HandleExpireTask(expirer, log))
	return mux
}

// HandleExpireTask обработчик задачи истечения окна оплаты
func HandleExpireTask(expirer AttemptExpirer, log Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ExpirePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil || p.AuthorizationID == "" {
			log.Error("HandleExpireTask: invalid payload: %s", string(task.Payload()))
			return fmt.Errorf("%w: %w", ErrInvalidPayload, asynq.SkipRetry)
		}

		if err := expirer.Expire(ctx, p.AuthorizationID); err != nil {
			log.Error("HandleExpireTask: authorization_id=%s, error=%v", p.AuthorizationID, err)
			return err
		}

		log.Info("HandleExpireTask: authorization_id=%s processed", p.AuthorizationID)
		return nil
	}
}
