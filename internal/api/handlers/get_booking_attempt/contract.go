package get_booking_attempt

import (
	"context"

	getBookingAttempt "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_booking_attempt"
)

type GetBookingAttemptUseCase interface {
	Execute(ctx context.Context, authorizationID string) (*getBookingAttempt.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
