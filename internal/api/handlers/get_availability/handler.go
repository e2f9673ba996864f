package get_availability

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_availability"
)

const (
	msgServiceNotFound     = "услуга не найдена"
	msgInvalidConfiguration = "услуга настроена некорректно: нет мастеров или длительности"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/services/{serviceId}/availability
// Query params: staffId (ID или "any", по умолчанию any), date (YYYY-MM-DD)
// Некорректный ввод дает 200 с пустой доступностью.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	query := r.URL.Query()
	staffIDStr, dateStr := query.Get("staffId"), query.Get("date")

	useCaseReq, ok := ToUseCaseRequest(vars["businessId"], vars["serviceId"], staffIDStr, dateStr)
	if !ok {
		h.logger.Warn("GET /businesses/{id}/services/{id}/availability - Invalid input: business=%q, service=%q, staff=%q, date=%q",
			vars["businessId"], vars["serviceId"], staffIDStr, dateStr)
		handlers.RespondJSON(w, http.StatusOK, EmptyResponse(vars["serviceId"], staffIDStr, dateStr))
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/services/{id}/availability - Invalid input: %v", err)
			handlers.RespondJSON(w, http.StatusOK, EmptyResponse(vars["serviceId"], staffIDStr, dateStr))

		case errors.Is(err, getAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/services/{id}/availability - Service not found: business_id=%d, service_id=%d",
				useCaseReq.BusinessID, useCaseReq.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailability.ErrInvalidServiceConfiguration):
			h.logger.Warn("GET /businesses/{id}/services/{id}/availability - Invalid service configuration: service_id=%d",
				useCaseReq.ServiceID)
			handlers.RespondError(w, http.StatusUnprocessableEntity, msgInvalidConfiguration)

		default:
			h.logger.Error("GET /businesses/{id}/services/{id}/availability - Failed to compute availability: business_id=%d, service_id=%d, error=%v",
				useCaseReq.BusinessID, useCaseReq.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/services/{id}/availability - Availability computed: business_id=%d, service_id=%d, starts=%d",
		useCaseReq.BusinessID, useCaseReq.ServiceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
