package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	"github.com/m04kA/SMC-ConciergeService/pkg/logger"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type memoryProviders struct {
	providers []*domain.Provider
	resources []*domain.Resource
}

func (m *memoryProviders) Create(_ context.Context, p *domain.Provider) (*domain.Provider, error) {
	created := *p
	created.ID = int64(len(m.providers) + 1)
	m.providers = append(m.providers, &created)
	return &created, nil
}

func (m *memoryProviders) CreateResource(_ context.Context, res *domain.Resource) (*domain.Resource, error) {
	created := *res
	created.ID = int64(len(m.resources) + 100)
	m.resources = append(m.resources, &created)
	return &created, nil
}

type memorySlots struct {
	slots   []*domain.Slot
	failing bool
}

func (m *memorySlots) Create(_ context.Context, slot *domain.Slot) (*domain.Slot, error) {
	if m.failing {
		return nil, errors.New("insert failed")
	}
	m.slots = append(m.slots, slot)
	return slot, nil
}

func (m *memorySlots) CountAvailable(_ context.Context, providerID int64, from time.Time) (int, error) {
	n := 0
	for _, s := range m.slots {
		if s.ProviderID == providerID && s.Kind == domain.SlotAvailable && !s.StartAt.Before(from) {
			n++
		}
	}
	return n, nil
}

type recordingRecompute struct {
	providers []int64
}

func (r *recordingRecompute) Recompute(_ context.Context, providerID int64) (*domain.NextAvailable, error) {
	r.providers = append(r.providers, providerID)
	return nil, nil
}

// Пятница, 6 июня 2025
var now = time.Date(2025, 6, 6, 15, 0, 0, 0, time.UTC)

func TestGenerateSlots_WeekdaysOnly(t *testing.T) {
	slots := GenerateSlots(1, nil, now, time.UTC, DefaultConfig())

	// 14 дней после пятницы: 10 будних дней по 7 слотов
	require.Len(t, slots, 70)
	for _, s := range slots {
		assert.NotEqual(t, time.Saturday, s.StartAt.Weekday())
		assert.NotEqual(t, time.Sunday, s.StartAt.Weekday())
		assert.Equal(t, time.Hour, s.EndAt.Sub(s.StartAt))
		assert.Equal(t, domain.SlotAvailable, s.Kind)
	}
	assert.Equal(t, time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC), slots[0].StartAt)
}

func TestGenerateSlots_ProviderTimezone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	slots := GenerateSlots(1, nil, now, ny, DefaultConfig())

	require.NotEmpty(t, slots)
	// 9:00 по Нью-Йорку летом = 13:00 UTC
	assert.Equal(t, time.Date(2025, 6, 9, 13, 0, 0, 0, time.UTC), slots[0].StartAt)
}

func TestRun_SeedsProvidersResourcesAndSlots(t *testing.T) {
	providers := &memoryProviders{}
	slots := &memorySlots{}
	recompute := &recordingRecompute{}
	s := NewSeeder(providers, slots, recompute, DefaultConfig(), logger.NewNop())
	s.timeProvider = fixedClock{now: now}

	result, err := s.Run(context.Background(), DefaultProviders())

	require.NoError(t, err)
	assert.Equal(t, 3, result.Providers)
	assert.Equal(t, 4, result.Resources)
	// Glow: два ресурса, Lumi: один, Radiance без расписания
	assert.Equal(t, 3*70, result.Slots)
	assert.Equal(t, []int64{1, 2, 3}, recompute.providers)
	assert.True(t, providers.resources[0].IsDefault)
	assert.False(t, providers.resources[1].IsDefault)
}

func TestSeedSlots_SkipsProviderWithSchedule(t *testing.T) {
	slots := &memorySlots{}
	s := NewSeeder(&memoryProviders{}, slots, &recordingRecompute{}, DefaultConfig(), logger.NewNop())
	s.timeProvider = fixedClock{now: now}
	provider := &domain.Provider{ID: 1}

	first, err := s.SeedSlots(context.Background(), provider, nil)
	require.NoError(t, err)
	second, err := s.SeedSlots(context.Background(), provider, nil)
	require.NoError(t, err)

	assert.Equal(t, 70, first)
	assert.Zero(t, second)
	assert.Len(t, slots.slots, 70)
}

func TestSeedSlots_StoreError(t *testing.T) {
	s := NewSeeder(&memoryProviders{}, &memorySlots{failing: true}, &recordingRecompute{}, DefaultConfig(), logger.NewNop())
	s.timeProvider = fixedClock{now: now}

	_, err := s.SeedSlots(context.Background(), &domain.Provider{ID: 1}, nil)
	assert.Error(t, err)
}
