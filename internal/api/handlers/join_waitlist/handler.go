package join_waitlist

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	joinWaitlist "github.com/m04kA/SMC-SalonBookingService/internal/usecase/join_waitlist"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректная дата, ожидается YYYY-MM-DD"
	msgServiceNotFound    = "услуга не найдена"
)

type Handler struct {
	useCase JoinWaitlistUseCase
	logger  Logger
}

func NewHandler(useCase JoinWaitlistUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/waitlist
// 201 для новой записи, 200 если клиент уже стоял в листе ожидания
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req WaitlistRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /waitlist - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /waitlist - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, joinWaitlist.ErrInvalidInput):
			h.logger.Warn("POST /waitlist - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, joinWaitlist.ErrServiceNotFound):
			h.logger.Warn("POST /waitlist - Service not found: business_id=%d, service_id=%d", req.BusinessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)
		default:
			h.logger.Error("POST /waitlist - Failed to join waitlist: business_id=%d, service_id=%d, error=%v",
				req.BusinessID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}

	h.logger.Info("POST /waitlist - Waitlist entry saved: id=%d, created=%t", result.ID, result.Created)
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}
