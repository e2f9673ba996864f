package get_business_bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	businessID int64,
	userID int64,
	staffIDStr string,
	statusStr string,
	dateStr string,
	includeInactiveStr string,
) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{
		UserID:     userID,
		BusinessID: businessID,
	}

	if staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid staffId value: %w", err)
		}
		req.StaffID = &staffID
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date value: %w", err)
		}
		req.Date = &date
	}

	// По умолчанию только активные
	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
