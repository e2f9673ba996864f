package reset_booking_policy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SalonBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-SalonBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/policy"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/policy/models"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgBusinessNotFound  = "бизнес не найден"
	msgPolicyNotFound    = "для этого уровня нет собственной политики"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/businesses/{businessId}/booking-policy
// Query params: serviceId (опционально). Возвращает политику, которая действует после удаления.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := strconv.ParseInt(mux.Vars(r)["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/booking-policy - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /businesses/{id}/booking-policy - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	req := &models.ResetPolicyRequest{UserID: userID, BusinessID: businessID}
	if serviceIDStr := r.URL.Query().Get("serviceId"); serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("DELETE /businesses/{id}/booking-policy - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		req.ServiceID = &serviceID
	}

	result, err := h.service.Reset(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrBusinessNotFound):
			h.logger.Warn("DELETE /businesses/{id}/booking-policy - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)
		case errors.Is(err, policy.ErrPolicyNotFound):
			h.logger.Warn("DELETE /businesses/{id}/booking-policy - Policy not found: business_id=%d, service_id=%v",
				businessID, req.ServiceID)
			handlers.RespondNotFound(w, msgPolicyNotFound)
		case errors.Is(err, policy.ErrAccessDenied):
			h.logger.Warn("DELETE /businesses/{id}/booking-policy - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)
		default:
			h.logger.Error("DELETE /businesses/{id}/booking-policy - Failed to reset policy: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/booking-policy - Policy reset: business_id=%d, effective_level=%s",
		businessID, result.Level)
	handlers.RespondJSON(w, http.StatusOK, result)
}
