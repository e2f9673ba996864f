package fakes

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/attempt"
)

// Attempts хранилище попыток в памяти. Update выполняет fn под мьютексом,
// что эквивалентно WATCH/MULTI в redis.
type Attempts struct {
	mu       sync.Mutex
	attempts map[string]*domain.BookingAttempt

	// UpdateErr возвращается из Update, если задан
	UpdateErr error
}

func NewAttempts() *Attempts {
	return &Attempts{attempts: make(map[string]*domain.BookingAttempt)}
}

func (s *Attempts) Create(_ context.Context, a *domain.BookingAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.attempts[a.AuthorizationID]; ok {
		return attempt.ErrAttemptExists
	}
	copied := *a
	s.attempts[a.AuthorizationID] = &copied
	return nil
}

func (s *Attempts) Get(_ context.Context, authorizationID string) (*domain.BookingAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[authorizationID]
	if !ok {
		return nil, attempt.ErrAttemptNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *Attempts) Update(_ context.Context, authorizationID string, fn func(a *domain.BookingAttempt) error) (*domain.BookingAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return nil, s.UpdateErr
	}
	a, ok := s.attempts[authorizationID]
	if !ok {
		return nil, attempt.ErrAttemptNotFound
	}
	working := *a
	if err := fn(&working); err != nil {
		return nil, err
	}
	s.attempts[authorizationID] = &working
	out := working
	return &out, nil
}
