package create_payment_intent

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_payment_intent: service not found")

	// ErrInvalidServiceConfiguration возвращается, когда у услуги нет мастеров или длительности
	ErrInvalidServiceConfiguration = errors.New("create_payment_intent: invalid service configuration")

	// ErrStaffNotEligible возвращается, когда мастер не оказывает услугу
	ErrStaffNotEligible = errors.New("create_payment_intent: staff is not eligible for service")

	// ErrSlotNotAvailable возвращается, когда время уже занято или вне окна бронирования
	ErrSlotNotAvailable = errors.New("create_payment_intent: slot is not available")

	// ErrPaymentFailed возвращается, когда платежный шлюз отклонил авторизацию
	ErrPaymentFailed = errors.New("create_payment_intent: payment authorization failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_payment_intent: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_payment_intent: internal error")
)
