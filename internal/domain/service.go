package domain

import "time"

// ServiceSpec описание услуги из каталога
type ServiceSpec struct {
	ID               int64
	BusinessID       int64
	Name             string
	DurationMinutes  int
	PriceCents       int64
	EligibleStaffIDs []int64
}

// Duration returns the service duration
func (s *ServiceSpec) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}

// IsEligible returns true if the staff member may perform the service
func (s *ServiceSpec) IsEligible(staffID int64) bool {
	for _, id := range s.EligibleStaffIDs {
		if id == staffID {
			return true
		}
	}
	return false
}
