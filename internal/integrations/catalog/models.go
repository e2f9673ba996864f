package catalog

import (
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// Service модель услуги из каталога
type Service struct {
	ID               int64   `json:"id"`
	BusinessID       int64   `json:"business_id"`
	Name             string  `json:"name"`
	DurationMinutes  int     `json:"duration_minutes"`
	PriceCents       int64   `json:"price_cents"`
	EligibleStaffIDs []int64 `json:"eligible_staff_ids"`
}

func (s Service) toDomain() *domain.ServiceSpec {
	return &domain.ServiceSpec{
		ID:               s.ID,
		BusinessID:       s.BusinessID,
		Name:             s.Name,
		DurationMinutes:  s.DurationMinutes,
		PriceCents:       s.PriceCents,
		EligibleStaffIDs: s.EligibleStaffIDs,
	}
}

// TimeRange интервал времени суток
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WorkingDay рабочий день мастера, weekday: 0 = воскресенье
type WorkingDay struct {
	Weekday   int         `json:"weekday"`
	IsWorking bool        `json:"is_working"`
	Start     string      `json:"start"`
	End       string      `json:"end"`
	Breaks    []TimeRange `json:"breaks"`
}

// StaffProfile расписание мастера из каталога
type StaffProfile struct {
	StaffID           int64        `json:"staff_id"`
	Timezone          string       `json:"timezone"`
	BufferMinutes     int          `json:"buffer_minutes"`
	MaxBookingsPerDay int          `json:"max_bookings_per_day"`
	WorkingDays       []WorkingDay `json:"working_days"`
}

// toDomain переводит расписание в профиль; дни вне 0..6 пропускаются,
// отсутствующие дни считаются выходными
func (p StaffProfile) toDomain() *domain.StaffAvailabilityProfile {
	profile := &domain.StaffAvailabilityProfile{
		StaffID:           p.StaffID,
		Timezone:          p.Timezone,
		BufferMinutes:     p.BufferMinutes,
		MaxBookingsPerDay: p.MaxBookingsPerDay,
	}

	for _, d := range p.WorkingDays {
		if d.Weekday < 0 || d.Weekday > 6 {
			continue
		}
		day := domain.WorkingDay{
			IsWorking: d.IsWorking,
			Start:     types.TimeString(d.Start),
			End:       types.TimeString(d.End),
		}
		for _, b := range d.Breaks {
			day.Breaks = append(day.Breaks, domain.TimeRange{
				Start: types.TimeString(b.Start),
				End:   types.TimeString(b.End),
			})
		}
		profile.Days[d.Weekday] = day
	}

	return profile
}

// Business модель бизнеса из каталога
type Business struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Timezone   string  `json:"timezone"`
	ManagerIDs []int64 `json:"manager_ids"`
}

// IsManager проверяет, управляет ли пользователь бизнесом
func (b *Business) IsManager(userID int64) bool {
	for _, id := range b.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
