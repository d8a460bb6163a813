package seed

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	"github.com/m04kA/SMC-ConciergeService/pkg/ptr"
)

// DemoProvider описание демо-провайдера
type DemoProvider struct {
	Name       string
	Timezone   string
	Rating     *float64
	BasePrice  *float64
	Procedures []string
	Staff      []string // Первый ресурс становится ресурсом по умолчанию
	WithSlots  bool     // false = провайдер без расписания, клиенту показываются ориентировочные времена
}

// DefaultProviders набор демо-провайдеров
func DefaultProviders() []DemoProvider {
	return []DemoProvider{
		{
			Name:       "Glow Aesthetics",
			Timezone:   "America/New_York",
			Rating:     ptr.Ptr(4.9),
			BasePrice:  ptr.Ptr(480.0),
			Procedures: []string{"botox", "fillers", "chemical-peel"},
			Staff:      []string{"Dr. Alana Reyes", "Nurse Kim Patel"},
			WithSlots:  true,
		},
		{
			Name:       "Lumi Med Spa",
			Timezone:   "America/Los_Angeles",
			Rating:     ptr.Ptr(4.6),
			BasePrice:  ptr.Ptr(420.0),
			Procedures: []string{"botox", "microneedling"},
			Staff:      []string{domain.DefaultResourceName},
			WithSlots:  true,
		},
		{
			Name:       "Radiance Clinic",
			Timezone:   "America/Chicago",
			Rating:     ptr.Ptr(4.7),
			BasePrice:  ptr.Ptr(455.0),
			Procedures: []string{"botox", "fillers"},
			Staff:      []string{domain.DefaultResourceName},
			WithSlots:  false,
		},
	}
}

// Result итог заполнения
type Result struct {
	Providers int
	Resources int
	Slots     int
}

// Seeder создаёт демо-провайдеров с ресурсами и расписанием
type Seeder struct {
	providerRepo ProviderRepository
	slotRepo     SlotRepository
	availability AvailabilityRecomputer
	config       Config
	logger       Logger
	timeProvider TimeProvider
}

func NewSeeder(
	providerRepo ProviderRepository,
	slotRepo SlotRepository,
	availability AvailabilityRecomputer,
	cfg Config,
	logger Logger,
) *Seeder {
	return &Seeder{
		providerRepo: providerRepo,
		slotRepo:     slotRepo,
		availability: availability,
		config:       cfg,
		logger:       logger,
		timeProvider: RealTimeProvider{},
	}
}

// Run создаёт провайдеров из списка и заполняет их расписание
func (s *Seeder) Run(ctx context.Context, providers []DemoProvider) (*Result, error) {
	result := &Result{}

	for _, demo := range providers {
		provider, err := s.providerRepo.Create(ctx, &domain.Provider{
			Name:       demo.Name,
			Timezone:   demo.Timezone,
			Rating:     demo.Rating,
			BasePrice:  demo.BasePrice,
			Procedures: demo.Procedures,
		})
		if err != nil {
			return result, fmt.Errorf("create provider %q: %w", demo.Name, err)
		}
		result.Providers++

		var resources []*domain.Resource
		for i, name := range demo.Staff {
			res, err := s.providerRepo.CreateResource(ctx, &domain.Resource{
				ProviderID: provider.ID,
				Name:       name,
				IsDefault:  i == 0,
			})
			if err != nil {
				return result, fmt.Errorf("create resource %q for provider=%d: %w", name, provider.ID, err)
			}
			resources = append(resources, res)
			result.Resources++
		}

		if demo.WithSlots {
			for _, res := range resources {
				n, err := s.createSlots(ctx, provider, &res.ID)
				if err != nil {
					return result, err
				}
				result.Slots += n
			}
		}

		if _, err := s.availability.Recompute(ctx, provider.ID); err != nil {
			s.logger.Warn("Seed: failed to recompute availability for provider=%d: %v", provider.ID, err)
		}

		s.logger.Info("Seed: provider=%d (%s) ready, resources=%d", provider.ID, provider.Name, len(resources))
	}

	return result, nil
}

// SeedSlots создаёт расписание ресурса существующего провайдера и пересчитывает ближайший
// свободный слот. Если у провайдера уже есть будущие available слоты, ничего не делает.
func (s *Seeder) SeedSlots(ctx context.Context, provider *domain.Provider, resourceID *int64) (int, error) {
	existing, err := s.slotRepo.CountAvailable(ctx, provider.ID, s.timeProvider.Now())
	if err != nil {
		return 0, fmt.Errorf("count slots for provider=%d: %w", provider.ID, err)
	}
	if existing > 0 {
		s.logger.Info("Seed: provider=%d already has %d available slots, skipping", provider.ID, existing)
		return 0, nil
	}

	n, err := s.createSlots(ctx, provider, resourceID)
	if err != nil {
		return 0, err
	}

	if _, err := s.availability.Recompute(ctx, provider.ID); err != nil {
		s.logger.Warn("Seed: failed to recompute availability for provider=%d: %v", provider.ID, err)
	}
	return n, nil
}

func (s *Seeder) createSlots(ctx context.Context, provider *domain.Provider, resourceID *int64) (int, error) {
	slots := GenerateSlots(provider.ID, resourceID, s.timeProvider.Now(), provider.Location(), s.config)
	for _, slot := range slots {
		if _, err := s.slotRepo.Create(ctx, slot); err != nil {
			return 0, fmt.Errorf("create slot %s for provider=%d: %w", slot.StartAt, provider.ID, err)
		}
	}
	return len(slots), nil
}
