package get_booking_attempt

import "errors"

var (
	// ErrAttemptNotFound возвращается, когда попытки нет или истек ее TTL
	ErrAttemptNotFound = errors.New("get_booking_attempt: attempt not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_booking_attempt: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_booking_attempt: internal error")
)
