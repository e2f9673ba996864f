package availability

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

var ErrInvalidScheduleInput = errors.New("availability: invalid schedule input")

type minuteRange struct {
	start int
	end   int
}

// ValidateWorkingDay проверяет инварианты рабочего дня.
// Нерабочий день всегда корректен.
func ValidateWorkingDay(day domain.WorkingDay) error {
	_, err := workingMinutes(day)
	return err
}

// ResolveDay возвращает открытые интервалы мастера на дату в порядке возрастания.
// Некорректное расписание означает нерабочий день: результат пустой, ошибка не возвращается.
// Для диагностики используйте ValidateWorkingDay.
func ResolveDay(profile *domain.StaffAvailabilityProfile, date time.Time, loc *time.Location) []domain.Interval {
	if profile == nil {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)

	ranges, err := workingMinutes(profile.Days[midnight.Weekday()])
	if err != nil || len(ranges) == 0 {
		return nil
	}

	out := make([]domain.Interval, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, domain.Interval{
			Start: time.Date(y, m, d, 0, r.start, 0, 0, loc),
			End:   time.Date(y, m, d, 0, r.end, 0, 0, loc),
		})
	}
	return out
}

// workingMinutes режет [start, end] перерывами и возвращает куски в минутах от полуночи
func workingMinutes(day domain.WorkingDay) ([]minuteRange, error) {
	if !day.IsWorking {
		return nil, nil
	}

	start, err := day.Start.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: start: %v", ErrInvalidScheduleInput, err)
	}
	end, err := day.End.Minutes()
	if err != nil {
		return nil, fmt.Errorf("%w: end: %v", ErrInvalidScheduleInput, err)
	}
	if start >= end {
		return nil, fmt.Errorf("%w: start %s is not before end %s", ErrInvalidScheduleInput, day.Start, day.End)
	}

	breaks := make([]minuteRange, 0, len(day.Breaks))
	for _, b := range day.Breaks {
		bs, err := b.Start.Minutes()
		if err != nil {
			return nil, fmt.Errorf("%w: break start: %v", ErrInvalidScheduleInput, err)
		}
		be, err := b.End.Minutes()
		if err != nil {
			return nil, fmt.Errorf("%w: break end: %v", ErrInvalidScheduleInput, err)
		}
		if bs >= be {
			return nil, fmt.Errorf("%w: break %s-%s is empty", ErrInvalidScheduleInput, b.Start, b.End)
		}
		if bs < start || be > end {
			return nil, fmt.Errorf("%w: break %s-%s outside working hours", ErrInvalidScheduleInput, b.Start, b.End)
		}
		breaks = append(breaks, minuteRange{start: bs, end: be})
	}

	sort.Slice(breaks, func(i, j int) bool { return breaks[i].start < breaks[j].start })
	for i := 1; i < len(breaks); i++ {
		if breaks[i].start < breaks[i-1].end {
			return nil, fmt.Errorf("%w: overlapping breaks", ErrInvalidScheduleInput)
		}
	}

	open := []minuteRange{{start: start, end: end}}
	for _, b := range breaks {
		next := make([]minuteRange, 0, len(open)+1)
		for _, r := range open {
			if b.end <= r.start || b.start >= r.end {
				next = append(next, r)
				continue
			}
			// Куски нулевой длины отбрасываются
			if b.start > r.start {
				next = append(next, minuteRange{start: r.start, end: b.start})
			}
			if b.end < r.end {
				next = append(next, minuteRange{start: b.end, end: r.end})
			}
		}
		open = next
	}

	return open, nil
}
