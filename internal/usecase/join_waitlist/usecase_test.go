package join_waitlist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/fakes"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/slots"
)

// fakeWaitlist повторяет ON CONFLICT ... DO UPDATE репозитория
type fakeWaitlist struct {
	mu      sync.Mutex
	entries map[string]*domain.WaitlistEntry
	nextID  int64
	err     error
}

func newFakeWaitlist() *fakeWaitlist {
	return &fakeWaitlist{entries: map[string]*domain.WaitlistEntry{}}
}

func (f *fakeWaitlist) Upsert(_ context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, false, f.err
	}

	key := fmt.Sprintf("%d/%d/%s/%s", entry.BusinessID, entry.ServiceID, entry.Customer.Email, entry.Date.Format(domain.DateFormat))
	if existing, ok := f.entries[key]; ok {
		existing.PreferredRange = entry.PreferredRange
		existing.Customer = entry.Customer
		cp := *existing
		return &cp, false, nil
	}

	f.nextID++
	stored := *entry
	stored.ID = f.nextID
	f.entries[key] = &stored
	cp := stored
	return &cp, true, nil
}

func newTestUseCase(repo *fakeWaitlist, catalog *fakes.Catalog) *UseCase {
	planner := slots.NewPlanner(catalog, fakes.NewBookings(), &fakes.Policies{}, time.UTC, &fakes.Logger{})
	uc := NewUseCase(repo, planner, &fakes.Logger{})
	uc.timeProvider = fakes.NewClock(time.Date(2026, 5, 30, 9, 0, 0, 0, time.UTC))
	return uc
}

func validRequest() *Request {
	return &Request{
		BusinessID:     1,
		ServiceID:      10,
		Date:           time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		PreferredStart: "10:00",
		PreferredEnd:   "12:00",
		Customer:       Customer{Email: "Anna@Example.com", Name: "Анна"},
	}
}

func testCatalog() *fakes.Catalog {
	return fakes.NewCatalog().AddService(&domain.ServiceSpec{ID: 10, BusinessID: 1, DurationMinutes: 60, EligibleStaffIDs: []int64{1}})
}

func TestUseCase_Execute_CreatesThenUpdates(t *testing.T) {
	repo := newFakeWaitlist()
	uc := newTestUseCase(repo, testCatalog())

	first, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, "anna@example.com", first.CustomerEmail)

	req := validRequest()
	req.Customer.Email = "anna@example.com"
	req.PreferredStart = "15:00"
	req.PreferredEnd = "18:00"

	second, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "15:00", second.PreferredStart.String())
	assert.Len(t, repo.entries, 1)
}

func TestUseCase_Execute_ServiceWithoutStaff(t *testing.T) {
	catalog := fakes.NewCatalog().AddService(&domain.ServiceSpec{ID: 10, BusinessID: 1, DurationMinutes: 60})
	uc := newTestUseCase(newFakeWaitlist(), catalog)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, resp.Created)
}

func TestUseCase_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(r *Request)
		repoErr error
		catErr  error
		wantErr error
	}{
		{
			name:    "past date",
			modify:  func(r *Request) { r.Date = time.Date(2026, 5, 29, 0, 0, 0, 0, time.UTC) },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "inverted range",
			modify:  func(r *Request) { r.PreferredStart, r.PreferredEnd = "12:00", "10:00" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad time",
			modify:  func(r *Request) { r.PreferredStart = "25:99" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad email",
			modify:  func(r *Request) { r.Customer.Email = "anna" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing name",
			modify:  func(r *Request) { r.Customer.Name = "  " },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown service",
			modify:  func(r *Request) { r.ServiceID = 99 },
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "catalog down",
			catErr:  errors.New("connection refused"),
			wantErr: ErrInternal,
		},
		{
			name:    "store failure",
			repoErr: errors.New("deadlock"),
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeWaitlist()
			repo.err = tt.repoErr
			catalog := testCatalog()
			catalog.Err = tt.catErr
			uc := newTestUseCase(repo, catalog)

			req := validRequest()
			if tt.modify != nil {
				tt.modify(req)
			}

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
