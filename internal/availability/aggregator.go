package availability

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
)

// Query параметры расчета доступности на один день
type Query struct {
	Date        time.Time
	Duration    time.Duration
	Granularity time.Duration
	NotBefore   time.Time      // старты раньше отбрасываются (минимальное время до записи), zero = без ограничения
	Location    *time.Location // зона по умолчанию для профилей без своей зоны
}

// StaffDay данные одного мастера на день
type StaffDay struct {
	Profile  *domain.StaffAvailabilityProfile
	Bookings []*domain.Booking
}

// Entry время начала и мастера, свободные в это время, в порядке eligibleStaffIds
type Entry struct {
	StartAt  time.Time
	StaffIDs []int64
}

// Availability упорядоченное по времени отображение start -> [staffId]
type Availability struct {
	entries []Entry
}

func (a *Availability) Entries() []Entry {
	if a == nil {
		return nil
	}
	return a.entries
}

func (a *Availability) Len() int {
	if a == nil {
		return 0
	}
	return len(a.entries)
}

func (a *Availability) IsEmpty() bool {
	return a.Len() == 0
}

// StaffAt returns the staff free at start, in eligibility order
func (a *Availability) StaffAt(start time.Time) []int64 {
	for _, e := range a.Entries() {
		if e.StartAt.Equal(start) {
			return e.StaffIDs
		}
	}
	return nil
}

// FirstStaffAt выбирает мастера для записи "к любому": первый в списке
func (a *Availability) FirstStaffAt(start time.Time) (int64, bool) {
	staff := a.StaffAt(start)
	if len(staff) == 0 {
		return 0, false
	}
	return staff[0], true
}

// StaffStarts прогоняет ResolveDay и FreeStarts для одного мастера
func StaffStarts(q Query, day StaffDay) []time.Time {
	if day.Profile == nil {
		return []time.Time{}
	}

	loc := day.Profile.Location(q.Location)
	open := ResolveDay(day.Profile, q.Date, loc)

	starts := FreeStarts(DetectInput{
		OpenRanges:  open,
		Duration:    q.Duration,
		Buffer:      day.Profile.Buffer(),
		Granularity: q.Granularity,
		Bookings:    day.Bookings,
		MaxPerDay:   day.Profile.MaxBookingsPerDay,
	})

	if q.NotBefore.IsZero() {
		return starts
	}

	filtered := starts[:0]
	for _, s := range starts {
		if !s.Before(q.NotBefore) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

// Aggregate считает доступность по мастерам в порядке staffOrder и объединяет
// результат. Для явного мастера staffOrder содержит один id.
func Aggregate(q Query, staffOrder []int64, days map[int64]StaffDay) *Availability {
	byStart := make(map[int64]*Entry)
	keys := make([]int64, 0)

	for _, staffID := range staffOrder {
		day, ok := days[staffID]
		if !ok {
			continue
		}
		for _, s := range StaffStarts(q, day) {
			key := s.UnixNano()
			entry, exists := byStart[key]
			if !exists {
				entry = &Entry{StartAt: s}
				byStart[key] = entry
				keys = append(keys, key)
			}
			if !containsID(entry.StaffIDs, staffID) {
				entry.StaffIDs = append(entry.StaffIDs, staffID)
			}
		}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	result := &Availability{entries: make([]Entry, 0, len(keys))}
	for _, k := range keys {
		result.entries = append(result.entries, *byStart[k])
	}
	return result
}

// SlotFor проверяет, что мастер свободен в start, повторяя полный расчет дня.
// Используется при фиксации бронирования.
func SlotFor(q Query, staffID int64, day StaffDay, start time.Time) (domain.Slot, bool) {
	for _, s := range StaffStarts(q, day) {
		if s.Equal(start) {
			return domain.Slot{StartAt: s, EndAt: s.Add(q.Duration), StaffID: staffID}, true
		}
	}
	return domain.Slot{}, false
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
