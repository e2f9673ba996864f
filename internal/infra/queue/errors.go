package queue

import "errors"

var (
	// ErrEnqueue возвращается, когда задачу не удалось поставить в очередь
	ErrEnqueue = errors.New("queue: failed to enqueue task")

	// ErrInvalidPayload возвращается для задачи с нечитаемыми данными
	ErrInvalidPayload = errors.New("queue: invalid task payload")
)
