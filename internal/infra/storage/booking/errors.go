package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotTaken возвращается, когда вставка нарушает ограничение на пересечение занимающих бронирований мастера
	ErrSlotTaken = errors.New("booking.repository: overlapping booking exists for staff")

	// ErrNotCancellable возвращается, когда бронирование уже не в отменяемом статусе
	ErrNotCancellable = errors.New("booking.repository: booking is not in a cancellable status")

	// ErrDuplicateAuthorization возвращается, когда по авторизации платежа уже создано бронирование
	ErrDuplicateAuthorization = errors.New("booking.repository: authorization already used")

	// ErrTransaction возвращается, когда операции нужна транзакция
	ErrTransaction = errors.New("booking.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
