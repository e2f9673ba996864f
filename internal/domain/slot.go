package domain

import "time"

// Interval полуоткрытый интервал [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals share any instant.
// Adjacent intervals (one ends where the other starts) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Contains reports whether other lies fully inside i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// Duration returns the length of the interval
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// IsEmpty returns true for zero-length or inverted intervals
func (i Interval) IsEmpty() bool {
	return !i.Start.Before(i.End)
}

// Pad widens the interval by d on both sides
func (i Interval) Pad(d time.Duration) Interval {
	return Interval{Start: i.Start.Add(-d), End: i.End.Add(d)}
}

// Slot a candidate bookable start for a staff member. Never persisted.
type Slot struct {
	StartAt time.Time
	EndAt   time.Time
	StaffID int64
}
