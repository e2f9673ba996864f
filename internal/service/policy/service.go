package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SalonBookingService/internal/domain"
	policyRepo "github.com/m04kA/SMC-SalonBookingService/internal/infra/storage/policy"
	catalogClient "github.com/m04kA/SMC-SalonBookingService/internal/integrations/catalog"
	"github.com/m04kA/SMC-SalonBookingService/internal/service/policy/models"
)

// Service сервис политик бронирования
type Service struct {
	policyRepo    PolicyRepository
	catalogClient CatalogClient
	logger        Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(
	policyRepo PolicyRepository,
	catalogClient CatalogClient,
	logger Logger,
) *Service {
	return &Service{
		policyRepo:    policyRepo,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// GetEffective возвращает действующую политику для услуги
// Приоритет: услуга > бизнес > значения по умолчанию
func (s *Service) GetEffective(ctx context.Context, businessID int64, serviceID *int64) (*domain.BookingPolicy, error) {
	policy, err := s.policyRepo.GetWithHierarchy(ctx, businessID, serviceID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return domain.DefaultBookingPolicy(businessID), nil
		}
		s.logger.Error("GetEffective: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetEffective - repository error: %v", ErrInternal, err)
	}
	return policy, nil
}

// Get возвращает действующую политику менеджеру бизнеса
func (s *Service) Get(ctx context.Context, req *models.GetPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Get: fetching policy for business=%d, service=%v by user=%d",
		req.BusinessID, req.ServiceID, req.UserID)

	if err := s.checkManager(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	policy, err := s.GetEffective(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Get: business=%d, level=%s", req.BusinessID, models.Level(policy))
	return models.FromDomainPolicy(policy), nil
}

// Update изменяет политику уровня (бизнес, услуга); отсутствующая политика
// создается на основе действующей
// Доступно только менеджерам бизнеса
func (s *Service) Update(ctx context.Context, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Update: updating policy for business=%d, service=%v by user=%d",
		req.BusinessID, req.ServiceID, req.UserID)

	// 1. Проверяем права доступа (только менеджер бизнеса)
	if err := s.checkManager(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	// 2. Если указана услуга, проверяем ее существование
	if req.ServiceID != nil {
		if _, err := s.catalogClient.GetService(ctx, req.BusinessID, *req.ServiceID); err != nil {
			if errors.Is(err, catalogClient.ErrServiceNotFound) {
				s.logger.Warn("Update: service id=%d not found in business=%d", *req.ServiceID, req.BusinessID)
				return nil, ErrServiceNotFound
			}
			s.logger.Error("Update: failed to get service id=%d: %v", *req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
	}

	// 3. Берем политику этого уровня или действующую как основу
	base, err := s.policyRepo.GetByBusinessAndService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Error("Update: repository error: %v", err)
			return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}
		base, err = s.GetEffective(ctx, req.BusinessID, req.ServiceID)
		if err != nil {
			return nil, err
		}
	}

	updated := *base
	updated.ServiceID = req.ServiceID
	req.ApplyTo(&updated)

	// 4. Валидируем результат
	if err := validatePolicy(&updated); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 5. Сохраняем
	saved, err := s.policyRepo.Upsert(ctx, &updated)
	if err != nil {
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully saved policy id=%d", saved.ID)
	return models.FromDomainPolicy(saved), nil
}

// List возвращает все сохраненные политики бизнеса, общая политика первой.
// Доступно только менеджерам бизнеса
func (s *Service) List(ctx context.Context, req *models.ListPoliciesRequest) (*models.PolicyListResponse, error) {
	s.logger.Info("List: fetching policies for business=%d by user=%d", req.BusinessID, req.UserID)

	if err := s.checkManager(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	policies, err := s.policyRepo.ListByBusiness(ctx, req.BusinessID)
	if err != nil {
		s.logger.Error("List: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d policies for business=%d", len(policies), req.BusinessID)
	return models.FromDomainPolicyList(policies), nil
}

// Reset удаляет политику уровня и возвращает политику, которая действует после удаления.
// Доступно только менеджерам бизнеса
func (s *Service) Reset(ctx context.Context, req *models.ResetPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Reset: resetting policy for business=%d, service=%v by user=%d",
		req.BusinessID, req.ServiceID, req.UserID)

	if err := s.checkManager(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	if err := s.policyRepo.Delete(ctx, req.BusinessID, req.ServiceID); err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Warn("Reset: no policy for business=%d, service=%v", req.BusinessID, req.ServiceID)
			return nil, ErrPolicyNotFound
		}
		s.logger.Error("Reset: repository error: %v", err)
		return nil, fmt.Errorf("%w: Reset - repository error: %v", ErrInternal, err)
	}

	effective, err := s.GetEffective(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Reset: business=%d now uses level=%s", req.BusinessID, models.Level(effective))
	return models.FromDomainPolicy(effective), nil
}

// checkManager проверяет, что пользователь является менеджером бизнеса
func (s *Service) checkManager(ctx context.Context, businessID, userID int64) error {
	business, err := s.catalogClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrBusinessNotFound) {
			s.logger.Warn("checkManager: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkManager: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if !business.IsManager(userID) {
		s.logger.Warn("checkManager: user=%d is not a manager of business=%d", userID, businessID)
		return ErrAccessDenied
	}
	return nil
}

// validatePolicy валидирует параметры политики
func validatePolicy(p *domain.BookingPolicy) error {
	if p.SlotGranularityMinutes < domain.MinSlotGranularityMinutes || p.SlotGranularityMinutes > domain.MaxSlotGranularityMinutes {
		return fmt.Errorf("%w: slotGranularityMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotGranularityMinutes, domain.MaxSlotGranularityMinutes)
	}

	if p.MinNoticeMinutes < 0 || p.MinNoticeMinutes > domain.MaxMinNoticeMinutes {
		return fmt.Errorf("%w: minNoticeMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxMinNoticeMinutes)
	}

	if p.AdvanceBookingDays < 0 || p.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between 0 and %d", ErrInvalidInput, domain.MaxAdvanceBookingDays)
	}

	if p.DepositThreshold < 0 || p.DepositThreshold > 100 {
		return fmt.Errorf("%w: depositThreshold must be between 0 and 100", ErrInvalidInput)
	}

	switch p.DepositMode {
	case domain.DepositModeFixed:
		if p.DepositFixedAmount < 0 {
			return fmt.Errorf("%w: depositFixedAmount must not be negative", ErrInvalidInput)
		}
	case domain.DepositModePercent:
		if p.DepositPercent < 0 || p.DepositPercent > 100 {
			return fmt.Errorf("%w: depositPercent must be between 0 and 100", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: depositMode must be fixed or percent", ErrInvalidInput)
	}

	if p.PaymentWindowMinutes < domain.MinPaymentWindowMinutes || p.PaymentWindowMinutes > domain.MaxPaymentWindowMinutes {
		return fmt.Errorf("%w: paymentWindowMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinPaymentWindowMinutes, domain.MaxPaymentWindowMinutes)
	}

	return nil
}
