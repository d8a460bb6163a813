package get_bookable_windows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	providerRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/provider"
)

// UseCase use case для получения окон, доступных клиенту для бронирования
type UseCase struct {
	slotRepo     SlotRepository
	providerRepo ProviderRepository
	settings     SettingsProvider
	fallback     FallbackConfig
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	providerRepo ProviderRepository,
	settings SettingsProvider,
	fallback FallbackConfig,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:     slotRepo,
		providerRepo: providerRepo,
		settings:     settings,
		fallback:     fallback,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения окон для бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetBookableWindows: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()
	from := req.From
	if from.IsZero() || from.Before(now) {
		from = now
	}

	uc.logger.Info("GetBookableWindows: user=%d, provider=%d, from=%s",
		req.UserID, req.ProviderID, from.Format(time.RFC3339))

	// 2. Получаем провайдера (нужен часовой пояс)
	provider, err := uc.providerRepo.GetByID(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			uc.logger.Warn("GetBookableWindows: provider id=%d not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("GetBookableWindows: failed to get provider id=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}
	loc := provider.Location()

	// 3. Свободные слоты, начинающиеся не раньше from
	slots, err := uc.slotRepo.List(ctx, domain.SlotFilter{
		ProviderID: req.ProviderID,
		StartFrom:  &from,
		Kinds:      []domain.SlotKind{domain.SlotAvailable},
	})
	if err != nil {
		uc.logger.Error("GetBookableWindows: failed to list slots for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
	}

	resp := &Response{
		ProviderID: provider.ID,
		Timezone:   loc.String(),
	}

	// 4. В запрошенном диапазоне слотов нет: ориентировочные времена показываем,
	// только если у провайдера вообще нет будущего расписания
	if len(slots) == 0 {
		earliest, err := uc.slotRepo.EarliestAvailable(ctx, req.ProviderID, now)
		if err != nil {
			uc.logger.Error("GetBookableWindows: failed to check schedule for provider=%d: %v", req.ProviderID, err)
			return nil, fmt.Errorf("%w: failed to check schedule: %v", ErrInternal, err)
		}

		if earliest != nil {
			resp.Days = []DayWindow{}
			uc.logger.Info("GetBookableWindows: provider=%d has no slots after %s (earliest %s)",
				req.ProviderID, from.Format(time.RFC3339), earliest.Format(time.RFC3339))
			return resp, nil
		}

		resp.Indicative = true
		resp.Days = fallbackWindows(now, loc, uc.fallback)
		uc.logger.Info("GetBookableWindows: provider=%d has no available slots, returning %d indicative days",
			req.ProviderID, len(resp.Days))
		return resp, nil
	}

	// 5. Настройки шага и горизонта по ресурсам
	resolver, err := uc.settings.Resolver(ctx, req.ProviderID)
	if err != nil {
		uc.logger.Error("GetBookableWindows: failed to load settings for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to load settings: %v", ErrInternal, err)
	}

	today := localDate(now, loc)
	increment := func(resourceID *int64) time.Duration {
		return time.Duration(resolver.For(resourceID).OfferIncrementMinutes) * time.Minute
	}
	horizon := func(resourceID *int64) time.Time {
		s := resolver.For(resourceID)
		if !s.HasAdvanceBookingLimit() {
			return time.Time{}
		}
		return today.AddDate(0, 0, s.AdvanceBookingDays)
	}

	resp.Days = groupByDate(slots, loc, increment, horizon)

	uc.logger.Info("GetBookableWindows: provider=%d, %d slots expanded into %d days",
		req.ProviderID, len(slots), len(resp.Days))
	return resp, nil
}
