package domain

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// TimeRange отрезок времени суток [Start, End)
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// WorkingDay рабочие часы мастера в конкретный день недели
type WorkingDay struct {
	IsWorking bool
	Start     types.TimeString
	End       types.TimeString
	Breaks    []TimeRange // отсортированы, не пересекаются, внутри [Start, End]
}

// StaffAvailabilityProfile расписание мастера. Принадлежит внешнему сервису,
// движок только читает его.
type StaffAvailabilityProfile struct {
	StaffID           int64
	Timezone          string
	BufferMinutes     int
	MaxBookingsPerDay int // 0 = без ограничений
	Days              [7]WorkingDay // индекс = time.Weekday
}

// Day returns the working day definition for the weekday of date
func (p *StaffAvailabilityProfile) Day(date time.Time) WorkingDay {
	return p.Days[date.Weekday()]
}

// Buffer returns the gap enforced around every booking
func (p *StaffAvailabilityProfile) Buffer() time.Duration {
	if p.BufferMinutes <= 0 {
		return 0
	}
	return time.Duration(p.BufferMinutes) * time.Minute
}

// Location resolves the profile timezone, falling back to the given default
func (p *StaffAvailabilityProfile) Location(fallback *time.Location) *time.Location {
	if p.Timezone != "" {
		if loc, err := time.LoadLocation(p.Timezone); err == nil {
			return loc
		}
	}
	if fallback == nil {
		return time.UTC
	}
	return fallback
}
