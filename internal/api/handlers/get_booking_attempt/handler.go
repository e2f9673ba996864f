package get_booking_attempt

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	getBookingAttempt "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_booking_attempt"
)

const (
	msgInvalidAuthorizationID = "некорректный ID авторизации"
	msgNotFound               = "попытка записи не найдена"
)

type Handler struct {
	useCase GetBookingAttemptUseCase
	logger  Logger
}

func NewHandler(useCase GetBookingAttemptUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/booking-attempts/{authorizationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	authorizationID := mux.Vars(r)["authorizationId"]

	result, err := h.useCase.Execute(r.Context(), authorizationID)
	if err != nil {
		switch {
		case errors.Is(err, getBookingAttempt.ErrInvalidInput):
			h.logger.Warn("GET /booking-attempts/{id} - Invalid authorization ID")
			handlers.RespondBadRequest(w, msgInvalidAuthorizationID)
		case errors.Is(err, getBookingAttempt.ErrAttemptNotFound):
			h.logger.Warn("GET /booking-attempts/{id} - Attempt not found: authorization_id=%s", authorizationID)
			handlers.RespondNotFound(w, msgNotFound)
		default:
			h.logger.Error("GET /booking-attempts/{id} - Failed to get attempt: authorization_id=%s, error=%v",
				authorizationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /booking-attempts/{id} - Attempt retrieved: authorization_id=%s, state=%s",
		authorizationID, result.State)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
