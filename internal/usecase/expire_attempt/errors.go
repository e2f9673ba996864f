package expire_attempt

import "errors"

var (
	// ErrNotYetExpired возвращается, если задача сработала раньше окончания окна оплаты
	ErrNotYetExpired = errors.New("expire_attempt: payment window is still open")

	// ErrVoidFailed возвращается, если не удалось отменить авторизацию
	ErrVoidFailed = errors.New("expire_attempt: failed to void authorization")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("expire_attempt: internal error")
)
