package create_payment_intent

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	createPaymentIntent "github.com/m04kA/SMC-SalonBookingService/internal/usecase/create_payment_intent"
)

const (
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidStartAt       = "некорректное время начала, ожидается RFC3339"
	msgServiceNotFound      = "услуга не найдена"
	msgInvalidConfiguration = "услуга настроена некорректно"
	msgStaffNotEligible     = "мастер не оказывает эту услугу"
	msgSlotNotAvailable     = "выбранное время недоступно"
	msgPaymentFailed        = "платежный провайдер отклонил авторизацию"
)

type Handler struct {
	useCase CreatePaymentIntentUseCase
	logger  Logger
}

func NewHandler(useCase CreatePaymentIntentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payment-intents
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req PaymentIntentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payment-intents - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /payment-intents - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createPaymentIntent.ErrInvalidInput):
			h.logger.Warn("POST /payment-intents - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())
		case errors.Is(err, createPaymentIntent.ErrServiceNotFound):
			h.logger.Warn("POST /payment-intents - Service not found: business_id=%d, service_id=%d", req.BusinessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)
		case errors.Is(err, createPaymentIntent.ErrInvalidServiceConfiguration):
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidConfiguration)
		case errors.Is(err, createPaymentIntent.ErrStaffNotEligible):
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgStaffNotEligible)
		case errors.Is(err, createPaymentIntent.ErrSlotNotAvailable):
			h.logger.Warn("POST /payment-intents - Slot not available: business_id=%d, start=%s", req.BusinessID, req.StartAt)
			handlers.RespondConflict(w, msgSlotNotAvailable)
		case errors.Is(err, createPaymentIntent.ErrPaymentFailed):
			h.logger.Warn("POST /payment-intents - Payment authorization failed: %v", err)
			handlers.RespondError(w, http.StatusPaymentRequired, msgPaymentFailed)
		default:
			h.logger.Error("POST /payment-intents - Failed to create payment intent: business_id=%d, service_id=%d, error=%v",
				req.BusinessID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payment-intents - Quote issued: business_id=%d, service_id=%d, deposit_required=%t, amount=%d",
		req.BusinessID, req.ServiceID, result.DepositRequired, result.DepositAmount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
