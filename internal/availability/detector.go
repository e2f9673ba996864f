package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// DetectInput входные данные поиска свободных стартов одного мастера на один день
type DetectInput struct {
	OpenRanges  []domain.Interval
	Duration    time.Duration
	Buffer      time.Duration
	Granularity time.Duration
	Bookings    []*domain.Booking // бронирования мастера за день, незанимающие отфильтровываются
	MaxPerDay   int               // 0 = без ограничений
}

// FreeStarts возвращает отсортированные по возрастанию старты, для которых
// [s, s+Duration) целиком лежит в одном открытом интервале и не пересекается
// ни с одним занимающим бронированием, расширенным на Buffer с обеих сторон.
// Сетка стартов отсчитывается от начала первого открытого интервала.
func FreeStarts(in DetectInput) []time.Time {
	if in.Duration <= 0 || len(in.OpenRanges) == 0 {
		return []time.Time{}
	}

	step := in.Granularity
	if step <= 0 {
		step = in.Duration
	}

	blocked := blockedIntervals(in.Bookings, in.Buffer)
	if in.MaxPerDay > 0 && len(blocked) >= in.MaxPerDay {
		return []time.Time{}
	}

	anchor := in.OpenRanges[0].Start
	for _, r := range in.OpenRanges {
		if r.Start.Before(anchor) {
			anchor = r.Start
		}
	}

	starts := make([]time.Time, 0)
	for _, r := range in.OpenRanges {
		for s := alignUp(r.Start, anchor, step); !s.Add(in.Duration).After(r.End); s = s.Add(step) {
			candidate := domain.Interval{Start: s, End: s.Add(in.Duration)}
			if !intersectsAny(candidate, blocked) {
				starts = append(starts, s)
			}
		}
	}

	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	return starts
}

func blockedIntervals(bookings []*domain.Booking, buffer time.Duration) []domain.Interval {
	out := make([]domain.Interval, 0, len(bookings))
	for _, b := range bookings {
		if b == nil || !b.IsOccupying() {
			continue
		}
		out = append(out, b.Interval().Pad(buffer))
	}
	return out
}

func intersectsAny(candidate domain.Interval, blocked []domain.Interval) bool {
	for _, b := range blocked {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

// alignUp возвращает первую точку сетки anchor + k*step, не раньше t
func alignUp(t, anchor time.Time, step time.Duration) time.Time {
	if !t.After(anchor) {
		return anchor
	}
	offset := t.Sub(anchor)
	k := offset / step
	if offset%step != 0 {
		k++
	}
	return anchor.Add(k * step)
}
