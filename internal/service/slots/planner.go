package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SalonBookingService/internal/availability"
	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	catalogClient "github.com/m04kA/SMC-SalonBookingService/internal/integrations/catalog"
	"github.com/m04kA/SMC-SalonBookingService/pkg/ptr"
)

// Offering услуга вместе с действующей политикой бизнеса
type Offering struct {
	Service *domain.ServiceSpec
	Policy  *domain.BookingPolicy
}

// Planner собирает входные данные движка доступности из каталога,
// хранилища бронирований и политики бизнеса
type Planner struct {
	catalog  CatalogClient
	bookings BookingRepository
	policies PolicyProvider
	location *time.Location
	logger   Logger
}

// NewPlanner создает планировщик. location - зона для мастеров без своей зоны.
func NewPlanner(
	catalog CatalogClient,
	bookings BookingRepository,
	policies PolicyProvider,
	location *time.Location,
	logger Logger,
) *Planner {
	if location == nil {
		location = time.UTC
	}
	return &Planner{
		catalog:  catalog,
		bookings: bookings,
		policies: policies,
		location: location,
		logger:   logger,
	}
}

// Location зона по умолчанию
func (p *Planner) Location() *time.Location {
	return p.location
}

// Offering загружает услугу и политику. Услуга без мастеров или без
// длительности дает ErrInvalidServiceConfiguration.
func (p *Planner) Offering(ctx context.Context, businessID, serviceID int64) (*Offering, error) {
	service, err := p.catalog.GetService(ctx, businessID, serviceID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("%w: get service: %v", ErrInternal, err)
	}

	if len(service.EligibleStaffIDs) == 0 {
		return nil, fmt.Errorf("%w: service id=%d has no eligible staff", ErrInvalidServiceConfiguration, serviceID)
	}
	if service.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: service id=%d has no duration", ErrInvalidServiceConfiguration, serviceID)
	}

	policy, err := p.policies.GetEffective(ctx, businessID, ptr.Ptr(serviceID))
	if err != nil {
		return nil, fmt.Errorf("%w: get policy: %v", ErrInternal, err)
	}

	return &Offering{Service: service, Policy: policy}, nil
}

// StaffOrder мастера для расчета: все допущенные для "любого" или один явный.
// Явный мастер, не оказывающий услугу, дает ErrStaffNotEligible.
func (p *Planner) StaffOrder(offering *Offering, staffID *int64) ([]int64, error) {
	if staffID == nil {
		return offering.Service.EligibleStaffIDs, nil
	}
	if !offering.Service.IsEligible(*staffID) {
		return nil, ErrStaffNotEligible
	}
	return []int64{*staffID}, nil
}

// Query параметры расчета на дату с учетом окна бронирования.
// Второе значение false, если дата вне окна (прошлое или дальше advance_booking_days).
func (p *Planner) Query(offering *Offering, date, now time.Time) (availability.Query, bool) {
	policy := offering.Policy
	q := availability.Query{
		Date:        date,
		Duration:    offering.Service.Duration(),
		Granularity: policy.Granularity(),
		NotBefore:   now.Add(policy.MinNotice()),
		Location:    p.location,
	}

	today := dateOnly(now.In(p.location))
	day := dateOnly(date)
	if day.Before(today) {
		return q, false
	}
	if policy.HasAdvanceBookingLimit() && day.After(today.AddDate(0, 0, policy.AdvanceBookingDays)) {
		return q, false
	}
	return q, true
}

// Profiles загружает расписания мастеров. Мастер без расписания пропускается
// с предупреждением, остальные ошибки каталога возвращаются.
func (p *Planner) Profiles(ctx context.Context, staffIDs []int64) (map[int64]*domain.StaffAvailabilityProfile, error) {
	profiles := make(map[int64]*domain.StaffAvailabilityProfile, len(staffIDs))
	for _, id := range staffIDs {
		profile, err := p.catalog.GetStaffProfile(ctx, id)
		if err != nil {
			if errors.Is(err, catalogClient.ErrStaffNotFound) {
				p.logger.Warn("Planner.Profiles: staff id=%d has no availability profile", id)
				continue
			}
			return nil, fmt.Errorf("%w: get staff profile id=%d: %v", ErrInternal, id, err)
		}
		profiles[id] = profile
	}
	return profiles, nil
}

// StaffDays читает занимающие бронирования мастеров за их локальные сутки даты.
// Внутри транзакции строки блокируются репозиторием.
func (p *Planner) StaffDays(
	ctx context.Context,
	profiles map[int64]*domain.StaffAvailabilityProfile,
	date time.Time,
) (map[int64]availability.StaffDay, error) {
	days := make(map[int64]availability.StaffDay, len(profiles))
	if len(profiles) == 0 {
		return days, nil
	}

	staffIDs := make([]int64, 0, len(profiles))
	windows := make(map[int64]domain.Interval, len(profiles))
	var from, to time.Time
	for id, profile := range profiles {
		// Предупреждаем о некорректном расписании: такой день считается выходным
		if err := availability.ValidateWorkingDay(profile.Day(localMidnight(date, profile.Location(p.location)))); err != nil {
			p.logger.Warn("Planner.StaffDays: staff id=%d schedule on %s ignored: %v",
				id, date.Format(domain.DateFormat), err)
		}

		window := localDay(date, profile.Location(p.location))
		windows[id] = window
		staffIDs = append(staffIDs, id)
		if from.IsZero() || window.Start.Before(from) {
			from = window.Start
		}
		if to.IsZero() || window.End.After(to) {
			to = window.End
		}
	}

	bookings, err := p.bookings.ListOccupying(ctx, staffIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: list bookings: %v", ErrInternal, err)
	}

	byStaff := make(map[int64][]*domain.Booking, len(staffIDs))
	for _, b := range bookings {
		window, ok := windows[b.StaffID]
		if !ok || !b.Interval().Overlaps(window) {
			continue
		}
		byStaff[b.StaffID] = append(byStaff[b.StaffID], b)
	}

	for id, profile := range profiles {
		days[id] = availability.StaffDay{Profile: profile, Bookings: byStaff[id]}
	}
	return days, nil
}

// Availability полный расчет доступности на дату
func (p *Planner) Availability(
	ctx context.Context,
	offering *Offering,
	staffOrder []int64,
	date, now time.Time,
) (*availability.Availability, error) {
	q, open := p.Query(offering, date, now)
	if !open {
		return availability.Aggregate(q, nil, nil), nil
	}

	profiles, err := p.Profiles(ctx, staffOrder)
	if err != nil {
		return nil, err
	}

	days, err := p.StaffDays(ctx, profiles, date)
	if err != nil {
		return nil, err
	}

	return availability.Aggregate(q, staffOrder, days), nil
}

// LocalDate дата начала записи в зоне мастера
func (p *Planner) LocalDate(profile *domain.StaffAvailabilityProfile, startAt time.Time) time.Time {
	return dateOnly(startAt.In(profile.Location(p.location)))
}

// Date календарная дата момента в зоне по умолчанию
func (p *Planner) Date(startAt time.Time) time.Time {
	return dateOnly(startAt.In(p.location))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func localMidnight(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func localDay(date time.Time, loc *time.Location) domain.Interval {
	start := localMidnight(date, loc)
	return domain.Interval{Start: start, End: start.AddDate(0, 0, 1)}
}
