package get_booking_policy

import (
	"strconv"

	"github.com/m04kA/SMC-SalonBookingService/internal/service/policy/models"
)

// ToServiceRequest формирует запрос к сервису из URL и query параметров
func ToServiceRequest(businessID, userID int64, serviceIDStr string) (*models.GetPolicyRequest, error) {
	req := &models.GetPolicyRequest{
		UserID:     userID,
		BusinessID: businessID,
	}

	// serviceId не указан = политика уровня бизнеса
	if serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ServiceID = &serviceID
	}

	return req, nil
}
