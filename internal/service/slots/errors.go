package slots

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена в каталоге
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidServiceConfiguration возвращается, когда у услуги нет мастеров или длительности
	ErrInvalidServiceConfiguration = errors.New("invalid service configuration")

	// ErrStaffNotEligible возвращается, когда мастер не оказывает услугу
	ErrStaffNotEligible = errors.New("staff is not eligible for service")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("slots: internal error")
)
