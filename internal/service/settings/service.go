package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	providerRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/provider"
	settingsRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/settings"
	"github.com/m04kA/SMC-ConciergeService/internal/service/settings/models"
)

// Service сервис настроек выдачи слотов
type Service struct {
	repo         SettingsRepository
	providerRepo ProviderRepository
	defaults     domain.SlotSettings
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек.
// defaults используются, когда у провайдера нет собственных настроек.
func NewService(repo SettingsRepository, providerRepo ProviderRepository, defaults domain.SlotSettings, logger Logger) *Service {
	return &Service{
		repo:         repo,
		providerRepo: providerRepo,
		defaults:     defaults,
		logger:       logger,
	}
}

// Defaults возвращает значения по умолчанию
func (s *Service) Defaults() domain.SlotSettings {
	return s.defaults
}

// Get возвращает действующие настройки с учётом иерархии (resource > provider > default)
func (s *Service) Get(ctx context.Context, req *models.GetSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("GetSettings: provider=%d, resource=%v", req.ProviderID, req.ResourceID)

	if err := s.checkProvider(ctx, req.ProviderID, req.ResourceID); err != nil {
		s.logger.Warn("GetSettings: %v", err)
		return nil, err
	}

	effective, level, err := s.effective(ctx, req.ProviderID, req.ResourceID)
	if err != nil {
		s.logger.Error("GetSettings: failed to resolve settings for provider=%d: %v", req.ProviderID, err)
		return nil, err
	}

	return models.FromDomainSettings(req.ProviderID, req.ResourceID, effective, level), nil
}

// Update сохраняет настройки уровня (provider, resource).
// Не переданные поля берутся из действующих на этом уровне настроек.
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("UpdateSettings: provider=%d, resource=%v by user=%d", req.ProviderID, req.ResourceID, req.UserID)

	if req.OfferIncrementMinutes == nil && req.AdvanceBookingDays == nil {
		s.logger.Warn("UpdateSettings: empty update for provider=%d", req.ProviderID)
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	if err := s.checkProvider(ctx, req.ProviderID, req.ResourceID); err != nil {
		s.logger.Warn("UpdateSettings: %v", err)
		return nil, err
	}

	current, _, err := s.effective(ctx, req.ProviderID, req.ResourceID)
	if err != nil {
		s.logger.Error("UpdateSettings: failed to resolve settings for provider=%d: %v", req.ProviderID, err)
		return nil, err
	}

	req.ApplyTo(&current)
	current.ProviderID = req.ProviderID
	current.ResourceID = req.ResourceID

	if err := validateSettings(current); err != nil {
		s.logger.Warn("UpdateSettings: validation failed: %v", err)
		return nil, err
	}

	saved, err := s.repo.Upsert(ctx, &current)
	if err != nil {
		s.logger.Error("UpdateSettings: failed to save settings for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	level := models.LevelProvider
	if !saved.IsProviderWide() {
		level = models.LevelResource
	}

	s.logger.Info("UpdateSettings: saved settings id=%d (increment=%dm, advance=%dd)",
		saved.ID, saved.OfferIncrementMinutes, saved.AdvanceBookingDays)
	return models.FromDomainSettings(saved.ProviderID, saved.ResourceID, *saved, level), nil
}

// Resolver загружает все настройки провайдера одним запросом
func (s *Service) Resolver(ctx context.Context, providerID int64) (*domain.SettingsResolver, error) {
	all, err := s.repo.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("%w: Resolver - repository error: %v", ErrInternal, err)
	}
	return domain.NewSettingsResolver(all, s.defaults), nil
}

func (s *Service) effective(ctx context.Context, providerID int64, resourceID *int64) (domain.SlotSettings, string, error) {
	if resourceID != nil {
		found, err := s.repo.Get(ctx, providerID, resourceID)
		if err == nil {
			return *found, models.LevelResource, nil
		}
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return domain.SlotSettings{}, "", fmt.Errorf("%w: get resource settings: %v", ErrInternal, err)
		}
	}

	found, err := s.repo.Get(ctx, providerID, nil)
	if err == nil {
		return *found, models.LevelProvider, nil
	}
	if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		return domain.SlotSettings{}, "", fmt.Errorf("%w: get provider settings: %v", ErrInternal, err)
	}

	return s.defaults, models.LevelDefault, nil
}

func (s *Service) checkProvider(ctx context.Context, providerID int64, resourceID *int64) error {
	if _, err := s.providerRepo.GetByID(ctx, providerID); err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			return ErrProviderNotFound
		}
		return fmt.Errorf("%w: get provider: %v", ErrInternal, err)
	}

	if resourceID == nil {
		return nil
	}

	res, err := s.providerRepo.GetResource(ctx, *resourceID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrResourceNotFound) {
			return ErrResourceNotFound
		}
		return fmt.Errorf("%w: get resource: %v", ErrInternal, err)
	}
	if res.ProviderID != providerID {
		return ErrResourceNotFound
	}
	return nil
}
