package fakes

import (
	"context"
	"sync"
	"time"
)

// Scheduler запоминает запланированные истечения попыток
type Scheduler struct {
	mu        sync.Mutex
	Scheduled map[string]time.Time
	Err       error
}

func NewScheduler() *Scheduler {
	return &Scheduler{Scheduled: make(map[string]time.Time)}
}

func (s *Scheduler) ScheduleExpiry(_ context.Context, authorizationID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.Scheduled[authorizationID] = at
	return nil
}
