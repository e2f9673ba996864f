package fakes

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	"github.com/m04kA/SMC-SalonBookingService/internal/integrations/catalog"
)

// Catalog каталог услуг, мастеров и бизнесов в памяти
type Catalog struct {
	mu         sync.Mutex
	services   map[int64]*domain.ServiceSpec
	profiles   map[int64]*domain.StaffAvailabilityProfile
	businesses map[int64]*catalog.Business

	// Err возвращается из всех методов, если задан
	Err error
}

func NewCatalog() *Catalog {
	return &Catalog{
		services:   make(map[int64]*domain.ServiceSpec),
		profiles:   make(map[int64]*domain.StaffAvailabilityProfile),
		businesses: make(map[int64]*catalog.Business),
	}
}

func (c *Catalog) AddService(s *domain.ServiceSpec) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[s.ID] = s
	return c
}

func (c *Catalog) AddProfile(p *domain.StaffAvailabilityProfile) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[p.StaffID] = p
	return c
}

func (c *Catalog) AddBusiness(b *catalog.Business) *Catalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.businesses[b.ID] = b
	return c
}

func (c *Catalog) GetService(_ context.Context, businessID, serviceID int64) (*domain.ServiceSpec, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	s, ok := c.services[serviceID]
	if !ok || s.BusinessID != businessID {
		return nil, catalog.ErrServiceNotFound
	}
	return s, nil
}

func (c *Catalog) GetStaffProfile(_ context.Context, staffID int64) (*domain.StaffAvailabilityProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	p, ok := c.profiles[staffID]
	if !ok {
		return nil, catalog.ErrStaffNotFound
	}
	return p, nil
}

func (c *Catalog) GetBusiness(_ context.Context, businessID int64) (*catalog.Business, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return nil, c.Err
	}
	b, ok := c.businesses[businessID]
	if !ok {
		return nil, catalog.ErrBusinessNotFound
	}
	return b, nil
}
