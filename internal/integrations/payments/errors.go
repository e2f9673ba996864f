package payments

import "errors"

var (
	// ErrAuthorizeFailed возвращается, когда провайдер не открыл авторизацию
	ErrAuthorizeFailed = errors.New("payments: authorization failed")

	// ErrCaptureFailed возвращается, когда списание авторизованной суммы не прошло
	ErrCaptureFailed = errors.New("payments: capture failed")

	// ErrVoidFailed возвращается, когда авторизацию не удалось отменить
	ErrVoidFailed = errors.New("payments: void failed")

	// ErrRefundFailed возвращается, когда возврат не прошел
	ErrRefundFailed = errors.New("payments: refund failed")

	// ErrAuthorizationNotFound возвращается для неизвестной авторизации
	ErrAuthorizationNotFound = errors.New("payments: authorization not found")
)
