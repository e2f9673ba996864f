package fakes

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/booking"
)

// Bookings хранилище бронирований в памяти. Create отклоняет пересекающиеся
// занимающие бронирования мастера так же, как ограничение bookings_no_overlap.
type Bookings struct {
	mu       sync.Mutex
	bookings map[int64]*domain.Booking
	nextID   int64

	// CreateErr возвращается из Create, если задан
	CreateErr error
	// SkipOverlapCheck отключает проверку пересечений, чтобы проверить повторную валидацию
	SkipOverlapCheck bool
	Locks            []int64
}

func NewBookings() *Bookings {
	return &Bookings{bookings: make(map[int64]*domain.Booking)}
}

// Add кладет бронирование без проверок, для подготовки данных
func (s *Bookings) Add(b *domain.Booking) *domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	b.Customer.Email = domain.NormalizeEmail(b.Customer.Email)
	s.bookings[b.ID] = b
	return b
}

func (s *Bookings) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateErr != nil {
		return nil, s.CreateErr
	}

	for _, existing := range s.bookings {
		if b.Payment.AuthorizationID != nil && existing.Payment.AuthorizationID != nil &&
			*b.Payment.AuthorizationID == *existing.Payment.AuthorizationID {
			return nil, booking.ErrDuplicateAuthorization
		}
		if s.SkipOverlapCheck {
			continue
		}
		if b.IsOccupying() && existing.IsOccupying() && existing.StaffID == b.StaffID &&
			existing.Interval().Overlaps(b.Interval()) {
			return nil, booking.ErrSlotTaken
		}
	}

	s.nextID++
	created := *b
	created.ID = s.nextID
	created.Customer.Email = domain.NormalizeEmail(b.Customer.Email)
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	s.bookings[created.ID] = &created

	out := created
	return &out, nil
}

func (s *Bookings) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, booking.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (s *Bookings) GetByAuthorizationID(_ context.Context, authorizationID string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.Payment.AuthorizationID != nil && *b.Payment.AuthorizationID == authorizationID {
			out := *b
			return &out, nil
		}
	}
	return nil, booking.ErrBookingNotFound
}

func (s *Bookings) ListOccupying(_ context.Context, staffIDs []int64, from, to time.Time) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	window := domain.Interval{Start: from, End: to}
	out := make([]*domain.Booking, 0)
	for _, b := range s.sorted() {
		if !b.IsOccupying() || !b.Interval().Overlaps(window) {
			continue
		}
		for _, id := range staffIDs {
			if b.StaffID == id {
				copied := *b
				out = append(out, &copied)
				break
			}
		}
	}
	return out, nil
}

func (s *Bookings) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range s.sorted() {
		if b.BusinessID != filter.BusinessID {
			continue
		}
		if filter.StaffID != nil && b.StaffID != *filter.StaffID {
			continue
		}
		if filter.From != nil && b.StartAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !b.StartAt.Before(*filter.To) {
			continue
		}
		if filter.Status != nil {
			if b.Status != *filter.Status {
				continue
			}
		} else if !filter.IncludeInactive && !b.IsOccupying() {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

func (s *Bookings) LockStaff(_ context.Context, staffID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Locks = append(s.Locks, staffID)
	return nil
}

func (s *Bookings) Cancel(_ context.Context, id int64, status domain.BookingStatus, reason *string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return booking.ErrBookingNotFound
	}
	if !b.CanBeCancelled() {
		return booking.ErrNotCancellable
	}
	b.Status = status
	b.CancellationReason = reason
	b.CancelledAt = &at
	b.UpdatedAt = at
	return nil
}

func (s *Bookings) UpdatePaymentStatus(_ context.Context, id int64, status domain.PaymentStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return booking.ErrBookingNotFound
	}
	b.Payment.Status = status
	b.UpdatedAt = at
	return nil
}

func (s *Bookings) CustomerHistory(_ context.Context, businessID int64, email string) (domain.CustomerHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var h domain.CustomerHistory
	email = domain.NormalizeEmail(email)
	for _, b := range s.bookings {
		if b.BusinessID != businessID || b.Customer.Email != email {
			continue
		}
		h.BookingCount++
		switch b.Status {
		case domain.StatusCompleted:
			h.CompletedCount++
		case domain.StatusNoShow:
			h.NoShowCount++
		}
		if h.FirstSeenAt == nil || b.CreatedAt.Before(*h.FirstSeenAt) {
			created := b.CreatedAt
			h.FirstSeenAt = &created
		}
	}
	return h, nil
}

// All возвращает копии всех бронирований в порядке id
func (s *Bookings) All() []*domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Booking, 0, len(s.bookings))
	for _, b := range s.sorted() {
		copied := *b
		out = append(out, &copied)
	}
	return out
}

func (s *Bookings) sorted() []*domain.Booking {
	out := make([]*domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].StartAt.Before(out[j].StartAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
