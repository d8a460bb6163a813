package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	providerRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/provider"
	"github.com/m04kA/SMC-ConciergeService/pkg/metrics"
)

// SyncResult итог пакетного пересчёта
type SyncResult struct {
	Total   int
	Updated int
	Failed  int
}

// Service вычисляет ближайший свободный слот провайдера и поддерживает
// производные поля next_available_* в актуальном состоянии
type Service struct {
	slotRepo         SlotRepository
	providerRepo     ProviderRepository
	metrics          *metrics.Metrics
	recomputeOnWrite bool
	timeProvider     TimeProvider
	logger           Logger
}

// NewService создает новый экземпляр сервиса.
// recomputeOnWrite включает пересчёт после каждой мутации слотов (SlotsChanged).
func NewService(
	slotRepo SlotRepository,
	providerRepo ProviderRepository,
	m *metrics.Metrics,
	recomputeOnWrite bool,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:         slotRepo,
		providerRepo:     providerRepo,
		metrics:          m,
		recomputeOnWrite: recomputeOnWrite,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Peek вычисляет ближайший свободный слот без записи в провайдера.
// nil означает, что подходящих слотов нет.
func (s *Service) Peek(ctx context.Context, providerID int64) (*domain.NextAvailable, error) {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("%w: Peek - get provider: %v", ErrInternal, err)
	}

	return s.compute(ctx, provider)
}

// Recompute вычисляет ближайший свободный слот и записывает его в провайдера.
// Если слотов нет, обе колонки обнуляются.
func (s *Service) Recompute(ctx context.Context, providerID int64) (*domain.NextAvailable, error) {
	next, err := s.Peek(ctx, providerID)
	if err != nil {
		s.metrics.IncAvailabilityRecompute(metrics.ResultError)
		s.logger.Error("RecomputeNextAvailable: provider=%d: %v", providerID, err)
		return nil, err
	}

	if err := s.providerRepo.UpdateNextAvailable(ctx, providerID, next); err != nil {
		s.metrics.IncAvailabilityRecompute(metrics.ResultError)
		s.logger.Error("RecomputeNextAvailable: failed to update provider=%d: %v", providerID, err)
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("%w: Recompute - update provider: %v", ErrInternal, err)
	}

	s.metrics.IncAvailabilityRecompute(metrics.ResultSuccess)
	if next == nil {
		s.logger.Info("RecomputeNextAvailable: provider=%d has no upcoming availability", providerID)
	} else {
		s.logger.Info("RecomputeNextAvailable: provider=%d next=%s %s",
			providerID, next.Date.Format(domain.DateFormat), next.Time)
	}

	return next, nil
}

// SlotsChanged вызывается после каждой мутации слотов провайдера.
// Ошибка пересчёта не отменяет мутацию: она логируется, а расхождение исправит SyncAll.
func (s *Service) SlotsChanged(ctx context.Context, providerID int64) {
	if !s.recomputeOnWrite {
		return
	}
	if _, err := s.Recompute(ctx, providerID); err != nil {
		s.logger.Warn("SlotsChanged: next available for provider=%d left stale: %v", providerID, err)
	}
}

// SyncAll пересчитывает производные поля для всех провайдеров
func (s *Service) SyncAll(ctx context.Context) (*SyncResult, error) {
	ids, err := s.providerRepo.ListIDs(ctx)
	if err != nil {
		s.logger.Error("SyncAvailability: failed to list providers: %v", err)
		return nil, fmt.Errorf("%w: SyncAll - list providers: %v", ErrInternal, err)
	}

	result := &SyncResult{Total: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := s.Recompute(ctx, id); err != nil {
			result.Failed++
			continue
		}
		result.Updated++
	}

	s.logger.Info("SyncAvailability: total=%d updated=%d failed=%d", result.Total, result.Updated, result.Failed)
	return result, nil
}

func (s *Service) compute(ctx context.Context, provider *domain.Provider) (*domain.NextAvailable, error) {
	now := s.timeProvider.Now()

	earliest, err := s.slotRepo.EarliestAvailable(ctx, provider.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: compute - earliest available: %v", ErrInternal, err)
	}

	return domain.NextAvailableFrom(earliest, provider.Location()), nil
}
