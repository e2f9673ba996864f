package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	createBooking "github.com/m04kA/SMC-SalonBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody    = "некорректное тело запроса"
	msgInvalidStartAt        = "некорректное время начала, ожидается RFC3339"
	msgSlotNoLongerAvailable = "выбранное время уже занято, выберите другое"
	msgServiceNotFound       = "услуга не найдена"
	msgInvalidConfiguration  = "услуга настроена некорректно"
	msgStaffNotEligible      = "мастер не оказывает эту услугу"
	msgDepositRequired       = "для этой записи требуется депозит, создайте платеж через /payment-intents"
	msgAuthorizationNotFound = "платежная авторизация не найдена"
	msgAuthorizationMismatch = "платежная авторизация выдана для другой записи"
	msgAuthorizationExpired  = "время на оплату истекло, начните запись заново"
	msgCaptureFailed         = "не удалось списать депозит"
	msgCommitInProgress      = "запись по этой авторизации уже оформляется"
	msgAttemptClosed         = "попытка записи завершена, начните запись заново"
	msgPaymentIncident       = "депозит списан, но запись не сохранена. Мы вернем деньги, при вопросах обратитесь в поддержку"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrSlotNoLongerAvailable):
			h.logger.Warn("POST /bookings - Slot no longer available: business_id=%d, start=%s", req.BusinessID, req.StartAt)
			handlers.RespondConflict(w, msgSlotNoLongerAvailable)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: business_id=%d, service_id=%d", req.BusinessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrInvalidServiceConfiguration):
			h.logger.Warn("POST /bookings - Invalid service configuration: service_id=%d", req.ServiceID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidConfiguration)

		case errors.Is(err, createBooking.ErrStaffNotEligible):
			h.logger.Warn("POST /bookings - Staff not eligible: service_id=%d", req.ServiceID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgStaffNotEligible)

		case errors.Is(err, createBooking.ErrDepositRequired):
			h.logger.Info("POST /bookings - Deposit required: business_id=%d, service_id=%d", req.BusinessID, req.ServiceID)
			handlers.RespondError(w, http.StatusPaymentRequired, msgDepositRequired)

		case errors.Is(err, createBooking.ErrAuthorizationNotFound):
			h.logger.Warn("POST /bookings - Authorization not found")
			handlers.RespondNotFound(w, msgAuthorizationNotFound)

		case errors.Is(err, createBooking.ErrAuthorizationMismatch):
			h.logger.Warn("POST /bookings - Authorization mismatch: business_id=%d, service_id=%d", req.BusinessID, req.ServiceID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgAuthorizationMismatch)

		case errors.Is(err, createBooking.ErrPaymentAuthorizationExpired):
			h.logger.Warn("POST /bookings - Authorization expired")
			handlers.RespondError(w, http.StatusGone, msgAuthorizationExpired)

		case errors.Is(err, createBooking.ErrPaymentCaptureFailed):
			h.logger.Warn("POST /bookings - Capture failed: %v", err)
			handlers.RespondError(w, http.StatusPaymentRequired, msgCaptureFailed)

		case errors.Is(err, createBooking.ErrCommitInProgress):
			handlers.RespondConflict(w, msgCommitInProgress)

		case errors.Is(err, createBooking.ErrAttemptClosed):
			h.logger.Warn("POST /bookings - Attempt closed: %v", err)
			handlers.RespondConflict(w, msgAttemptClosed)

		case errors.Is(err, createBooking.ErrPostCapturePersistenceFailure):
			h.logger.Error("POST /bookings - Deposit captured but booking not saved: business_id=%d, service_id=%d",
				req.BusinessID, req.ServiceID)
			handlers.RespondError(w, http.StatusInternalServerError, msgPaymentIncident)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: business_id=%d, service_id=%d, error=%v",
				req.BusinessID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, business_id=%d, staff_id=%d",
		result.ID, result.BusinessID, result.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
