package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrInvalidServiceConfiguration возвращается, когда у услуги нет мастеров или длительности
	ErrInvalidServiceConfiguration = errors.New("create_booking: invalid service configuration")

	// ErrStaffNotEligible возвращается, когда мастер не оказывает услугу
	ErrStaffNotEligible = errors.New("create_booking: staff is not eligible for service")

	// ErrSlotNoLongerAvailable возвращается, когда время заняли или оно вышло из окна бронирования
	ErrSlotNoLongerAvailable = errors.New("create_booking: slot is no longer available")

	// ErrDepositRequired возвращается на прямом пути, если оценка риска требует депозит
	ErrDepositRequired = errors.New("create_booking: deposit required")

	// ErrAuthorizationNotFound возвращается, когда попытки с такой авторизацией нет
	ErrAuthorizationNotFound = errors.New("create_booking: payment authorization not found")

	// ErrAuthorizationMismatch возвращается, когда запрос не совпадает с попыткой
	ErrAuthorizationMismatch = errors.New("create_booking: payment authorization does not match booking request")

	// ErrPaymentAuthorizationExpired возвращается, когда окно оплаты истекло
	ErrPaymentAuthorizationExpired = errors.New("create_booking: payment authorization expired")

	// ErrPaymentCaptureFailed возвращается, когда списание депозита не прошло
	ErrPaymentCaptureFailed = errors.New("create_booking: payment capture failed")

	// ErrPostCapturePersistenceFailure возвращается, когда деньги списаны, а бронирование не сохранено
	ErrPostCapturePersistenceFailure = errors.New("create_booking: booking could not be saved after payment capture")

	// ErrAttemptClosed возвращается, когда попытка уже завершена без бронирования
	ErrAttemptClosed = errors.New("create_booking: booking attempt is closed")

	// ErrCommitInProgress возвращается, когда попытку уже фиксирует другой запрос
	ErrCommitInProgress = errors.New("create_booking: commit already in progress")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
