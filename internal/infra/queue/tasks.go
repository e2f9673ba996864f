package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// TypeExpireAttempt задача истечения окна оплаты попытки бронирования
const TypeExpireAttempt = "booking_attempt:expire"

// ExpirePayload данные задачи истечения
type ExpirePayload struct {
	AuthorizationID string `json:"authorization_id"`
}

// NewExpireTask создает задачу, которая сработает в момент fireAt.
// TaskID делает постановку идемпотентной для одной авторизации.
func NewExpireTask(authorizationID string, fireAt time.Time, queueName string) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(ExpirePayload{AuthorizationID: authorizationID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeExpireAttempt, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(expireTaskID(authorizationID)),
		asynq.Queue(queueName),
		asynq.MaxRetry(5),
	}

	return task, opts, nil
}

func expireTaskID(authorizationID string) string {
	return "expire:" + authorizationID
}
