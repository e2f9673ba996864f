package get_availability

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	getAvailability "github.com/m04kA/SMC-SalonBookingService/internal/usecase/get_availability"
)

const staffAny = "any"

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Date         string       `json:"date"`
	ServiceID    int64        `json:"serviceId"`
	StaffID      string       `json:"staffId"` // ID мастера или "any"
	Availability Availability `json:"availability"`
}

// Availability объект {"HH:MM": [staffId]} с ключами в порядке времени
type Availability []getAvailability.Slot

// MarshalJSON сохраняет порядок времен начала
func (a Availability) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, slot := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(slot.Local)
		if err != nil {
			return nil, err
		}
		staff := slot.StaffIDs
		if staff == nil {
			staff = []int64{}
		}
		value, err := json.Marshal(staff)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// parseStaffID разбирает staffId: пусто или "any" = любой мастер
func parseStaffID(raw string) (*int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, staffAny) {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}

// ToUseCaseRequest собирает запрос use case. false означает некорректный ввод.
func ToUseCaseRequest(businessIDStr, serviceIDStr, staffIDStr, dateStr string) (*getAvailability.Request, bool) {
	businessID, err := strconv.ParseInt(businessIDStr, 10, 64)
	if err != nil || businessID <= 0 {
		return nil, false
	}
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil || serviceID <= 0 {
		return nil, false
	}
	staffID, ok := parseStaffID(staffIDStr)
	if !ok {
		return nil, false
	}
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, false
	}

	return &getAvailability.Request{
		BusinessID: businessID,
		ServiceID:  serviceID,
		StaffID:    staffID,
		Date:       date,
	}, true
}

// EmptyResponse ответ без свободного времени, в том числе на некорректный ввод
func EmptyResponse(serviceIDStr, staffIDStr, dateStr string) *AvailabilityResponse {
	serviceID, _ := strconv.ParseInt(serviceIDStr, 10, 64)
	staff := strings.TrimSpace(staffIDStr)
	if staff == "" {
		staff = staffAny
	}
	return &AvailabilityResponse{
		Date:         dateStr,
		ServiceID:    serviceID,
		StaffID:      staff,
		Availability: Availability{},
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	staff := staffAny
	if resp.StaffID != nil {
		staff = strconv.FormatInt(*resp.StaffID, 10)
	}
	slots := resp.Slots
	if slots == nil {
		slots = []getAvailability.Slot{}
	}
	return &AvailabilityResponse{
		Date:         resp.Date.Format(domain.DateFormat),
		ServiceID:    resp.ServiceID,
		StaffID:      staff,
		Availability: Availability(slots),
	}
}
