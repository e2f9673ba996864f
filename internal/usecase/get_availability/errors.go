package get_availability

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("get_availability: service not found")

	// ErrInvalidServiceConfiguration возвращается, когда у услуги нет мастеров или длительности
	ErrInvalidServiceConfiguration = errors.New("get_availability: invalid service configuration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_availability: internal error")
)
