package models

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Уровни, на которых найдена политика
const (
	LevelService  = "service"
	LevelBusiness = "business"
	LevelDefault  = "default"
)

// GetPolicyRequest запрос действующей политики
type GetPolicyRequest struct {
	UserID     int64
	BusinessID int64
	ServiceID  *int64 // nil = политика бизнеса
}

// ListPoliciesRequest запрос всех сохраненных политик бизнеса
type ListPoliciesRequest struct {
	UserID     int64
	BusinessID int64
}

// ResetPolicyRequest запрос на удаление политики уровня (BusinessID, ServiceID).
// После удаления действует политика уровнем выше.
type ResetPolicyRequest struct {
	UserID     int64
	BusinessID int64
	ServiceID  *int64
}

// UpdatePolicyRequest запрос на изменение политики уровня (BusinessID, ServiceID)
// Все поля опциональны - обновляются только переданные значения
type UpdatePolicyRequest struct {
	UserID                 int64   `json:"-"`
	BusinessID             int64   `json:"-"`
	ServiceID              *int64  `json:"serviceId,omitempty"`
	SlotGranularityMinutes *int    `json:"slotGranularityMinutes,omitempty"`
	MinNoticeMinutes       *int    `json:"minNoticeMinutes,omitempty"`
	AdvanceBookingDays     *int    `json:"advanceBookingDays,omitempty"`
	DepositThreshold       *int    `json:"depositThreshold,omitempty"`
	DepositMode            *string `json:"depositMode,omitempty"`
	DepositFixedAmount     *int64  `json:"depositFixedAmount,omitempty"`
	DepositPercent         *int    `json:"depositPercent,omitempty"`
	PaymentWindowMinutes   *int    `json:"paymentWindowMinutes,omitempty"`
}

// ApplyTo применяет переданные поля к политике
func (r *UpdatePolicyRequest) ApplyTo(p *domain.BookingPolicy) {
	if r.SlotGranularityMinutes != nil {
		p.SlotGranularityMinutes = *r.SlotGranularityMinutes
	}
	if r.MinNoticeMinutes != nil {
		p.MinNoticeMinutes = *r.MinNoticeMinutes
	}
	if r.AdvanceBookingDays != nil {
		p.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.DepositThreshold != nil {
		p.DepositThreshold = *r.DepositThreshold
	}
	if r.DepositMode != nil {
		p.DepositMode = domain.DepositMode(*r.DepositMode)
	}
	if r.DepositFixedAmount != nil {
		p.DepositFixedAmount = *r.DepositFixedAmount
	}
	if r.DepositPercent != nil {
		p.DepositPercent = *r.DepositPercent
	}
	if r.PaymentWindowMinutes != nil {
		p.PaymentWindowMinutes = *r.PaymentWindowMinutes
	}
}

// PolicyResponse ответ с действующей политикой
type PolicyResponse struct {
	ID                     int64      `json:"id,omitempty"`
	BusinessID             int64      `json:"businessId"`
	ServiceID              *int64     `json:"serviceId,omitempty"`
	Level                  string     `json:"level"`
	SlotGranularityMinutes int        `json:"slotGranularityMinutes"`
	MinNoticeMinutes       int        `json:"minNoticeMinutes"`
	AdvanceBookingDays     int        `json:"advanceBookingDays"`
	DepositThreshold       int        `json:"depositThreshold"`
	DepositMode            string     `json:"depositMode"`
	DepositFixedAmount     int64      `json:"depositFixedAmount"`
	DepositPercent         int        `json:"depositPercent"`
	PaymentWindowMinutes   int        `json:"paymentWindowMinutes"`
	UpdatedAt              *time.Time `json:"updatedAt,omitempty"`
}

// PolicyListResponse ответ со списком политик
type PolicyListResponse struct {
	Policies []PolicyResponse `json:"policies"`
}

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.BookingPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}

	resp := &PolicyResponse{
		ID:                     p.ID,
		BusinessID:             p.BusinessID,
		ServiceID:              p.ServiceID,
		Level:                  Level(p),
		SlotGranularityMinutes: p.SlotGranularityMinutes,
		MinNoticeMinutes:       p.MinNoticeMinutes,
		AdvanceBookingDays:     p.AdvanceBookingDays,
		DepositThreshold:       p.DepositThreshold,
		DepositMode:            string(p.DepositMode),
		DepositFixedAmount:     p.DepositFixedAmount,
		DepositPercent:         p.DepositPercent,
		PaymentWindowMinutes:   p.PaymentWindowMinutes,
	}
	if !p.UpdatedAt.IsZero() {
		updatedAt := p.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// FromDomainPolicyList конвертирует список domain моделей в DTO
func FromDomainPolicyList(policies []*domain.BookingPolicy) *PolicyListResponse {
	resp := &PolicyListResponse{
		Policies: make([]PolicyResponse, 0, len(policies)),
	}
	for _, p := range policies {
		if r := FromDomainPolicy(p); r != nil {
			resp.Policies = append(resp.Policies, *r)
		}
	}
	return resp
}

// Level возвращает уровень политики; несохраненная политика - значения по умолчанию
func Level(p *domain.BookingPolicy) string {
	switch {
	case p.ID == 0:
		return LevelDefault
	case p.IsServiceSpecific():
		return LevelService
	default:
		return LevelBusiness
	}
}
