package availability

import (
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/pkg/types"
)

// 2026-06-01: понедельник
var testDate = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2026, 6, 1, h, m, 0, 0, time.UTC)
}

func workingDay(start, end string, breaks ...domain.TimeRange) domain.WorkingDay {
	return domain.WorkingDay{
		IsWorking: true,
		Start:     types.TimeString(start),
		End:       types.TimeString(end),
		Breaks:    breaks,
	}
}

func brk(start, end string) domain.TimeRange {
	return domain.TimeRange{Start: types.TimeString(start), End: types.TimeString(end)}
}

func profileWith(staffID int64, day domain.WorkingDay, buffer int) *domain.StaffAvailabilityProfile {
	p := &domain.StaffAvailabilityProfile{StaffID: staffID, BufferMinutes: buffer}
	p.Days[time.Monday] = day
	return p
}

func booking(staffID int64, start, end time.Time, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{StaffID: staffID, StartAt: start, EndAt: end, Status: status}
}

func hhmm(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Format("15:04"))
	}
	return out
}
