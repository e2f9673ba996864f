package attempt

import "errors"

var (
	// ErrAttemptNotFound возвращается, когда попытки нет или истек ее TTL
	ErrAttemptNotFound = errors.New("attempt.store: attempt not found")

	// ErrAttemptExists возвращается при повторном создании попытки с тем же authorizationId
	ErrAttemptExists = errors.New("attempt.store: attempt already exists")

	// ErrConflict возвращается, когда попытку конкурентно изменили и повторы исчерпаны
	ErrConflict = errors.New("attempt.store: concurrent modification")

	// ErrEncode возвращается при ошибке сериализации попытки
	ErrEncode = errors.New("attempt.store: failed to encode attempt")

	// ErrRedis возвращается при ошибке обращения к redis
	ErrRedis = errors.New("attempt.store: redis error")
)
