package get_bookable_windows

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	providerRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/provider"
	"github.com/m04kA/SMC-ConciergeService/pkg/logger"
	"github.com/m04kA/SMC-ConciergeService/pkg/types"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeSlots struct {
	slots  []*domain.Slot
	filter domain.SlotFilter
}

func (f *fakeSlots) List(_ context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	f.filter = filter
	result := make([]*domain.Slot, 0, len(f.slots))
	for _, s := range f.slots {
		if filter.StartFrom != nil && s.StartAt.Before(*filter.StartFrom) {
			continue
		}
		result = append(result, s)
	}
	return result, nil
}

func (f *fakeSlots) EarliestAvailable(_ context.Context, _ int64, from time.Time) (*time.Time, error) {
	var earliest *time.Time
	for _, s := range f.slots {
		if s.Kind != domain.SlotAvailable || s.StartAt.Before(from) {
			continue
		}
		if earliest == nil || s.StartAt.Before(*earliest) {
			start := s.StartAt
			earliest = &start
		}
	}
	return earliest, nil
}

type fakeProviders map[int64]*domain.Provider

func (f fakeProviders) GetByID(_ context.Context, id int64) (*domain.Provider, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, providerRepo.ErrProviderNotFound
}

type fakeSettings struct {
	all []*domain.SlotSettings
}

func (f fakeSettings) Resolver(_ context.Context, _ int64) (*domain.SettingsResolver, error) {
	return domain.NewSettingsResolver(f.all, domain.SlotSettings{
		OfferIncrementMinutes: domain.DefaultOfferIncrementMinutes,
	}), nil
}

var now = time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC)

func newUseCase(slots *fakeSlots, tz string, settings fakeSettings) *UseCase {
	fallbackTimes := make([]types.TimeString, 0, len(domain.DefaultFallbackTimes))
	for _, label := range domain.DefaultFallbackTimes {
		t, _ := types.ParseClockLabel(label)
		fallbackTimes = append(fallbackTimes, t)
	}

	uc := NewUseCase(
		slots,
		fakeProviders{1: {ID: 1, Timezone: tz}},
		settings,
		FallbackConfig{Days: domain.DefaultFallbackDays, Times: fallbackTimes},
		logger.NewNop(),
	)
	uc.timeProvider = fixedClock{now: now}
	return uc
}

func slotAt(id int64, resourceID int64, staff string, start time.Time, length time.Duration) *domain.Slot {
	return &domain.Slot{
		ID:           id,
		ProviderID:   1,
		ResourceID:   &resourceID,
		ResourceName: &staff,
		StartAt:      start,
		EndAt:        start.Add(length),
		Kind:         domain.SlotAvailable,
	}
}

func labels(times []Candidate) []string {
	result := make([]string, 0, len(times))
	for _, c := range times {
		result = append(result, c.Time.Label())
	}
	return result
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, time.UTC)
}

func TestExecute_OrdersByClockNotLexically(t *testing.T) {
	slots := &fakeSlots{slots: []*domain.Slot{
		slotAt(1, 10, "Dr. Hale", at(11, 0), time.Hour),
		slotAt(2, 11, "Nurse Kim", at(14, 0), time.Hour),
		slotAt(3, 12, "Dr. Ortiz", at(9, 0), time.Hour),
	}}

	resp, err := newUseCase(slots, "UTC", fakeSettings{}).Execute(context.Background(), &Request{ProviderID: 1})

	require.NoError(t, err)
	assert.False(t, resp.Indicative)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, []string{"9:00 AM", "11:00 AM", "2:00 PM"}, labels(resp.Days[0].Times))
	assert.Equal(t, "Dr. Ortiz", *resp.Days[0].Times[0].StaffName)
}

func TestExecute_QueriesAvailableFromNow(t *testing.T) {
	slots := &fakeSlots{}

	_, err := newUseCase(slots, "UTC", fakeSettings{}).Execute(context.Background(), &Request{
		ProviderID: 1,
		From:       now.Add(-48 * time.Hour),
	})

	require.NoError(t, err)
	require.NotNil(t, slots.filter.StartFrom)
	assert.True(t, slots.filter.StartFrom.Equal(now))
	assert.Equal(t, []domain.SlotKind{domain.SlotAvailable}, slots.filter.Kinds)
}

func TestExpandSlot(t *testing.T) {
	tests := []struct {
		name      string
		length    time.Duration
		increment time.Duration
		want      []string
	}{
		{"three full steps", 3 * time.Hour, time.Hour, []string{"9:00 AM", "10:00 AM", "11:00 AM"}},
		{"tail shorter than a step is dropped", 150 * time.Minute, time.Hour, []string{"9:00 AM", "10:00 AM"}},
		{"slot shorter than a step offers its start", 30 * time.Minute, time.Hour, []string{"9:00 AM"}},
		{"half-hour increment", time.Hour, 30 * time.Minute, []string{"9:00 AM", "9:30 AM"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := slotAt(1, 10, "Dr. Hale", at(9, 0), tt.length)
			assert.Equal(t, tt.want, labels(expandSlot(slot, time.UTC, tt.increment)))
		})
	}
}

func TestExecute_DeduplicatesFirstSeen(t *testing.T) {
	slots := &fakeSlots{slots: []*domain.Slot{
		slotAt(1, 10, "Dr. Hale", at(10, 0), 2*time.Hour),
		slotAt(2, 11, "Nurse Kim", at(10, 0), time.Hour),
	}}

	resp, err := newUseCase(slots, "UTC", fakeSettings{}).Execute(context.Background(), &Request{ProviderID: 1})

	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	times := resp.Days[0].Times
	assert.Equal(t, []string{"10:00 AM", "11:00 AM"}, labels(times))
	assert.Equal(t, int64(1), *times[0].SlotID)
	assert.Equal(t, "Dr. Hale", *times[0].StaffName)
}

func TestExecute_GroupsByProviderLocalDate(t *testing.T) {
	// 02:30 UTC 2 июня = 22:30 1 июня в Нью-Йорке
	slots := &fakeSlots{slots: []*domain.Slot{
		slotAt(1, 10, "Dr. Hale", time.Date(2025, 6, 2, 2, 30, 0, 0, time.UTC), time.Hour),
		slotAt(2, 10, "Dr. Hale", time.Date(2025, 6, 2, 14, 0, 0, 0, time.UTC), time.Hour),
	}}

	resp, err := newUseCase(slots, "America/New_York", fakeSettings{}).Execute(context.Background(), &Request{ProviderID: 1})

	require.NoError(t, err)
	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2025-06-01", resp.Days[0].Date.Format(domain.DateFormat))
	assert.Equal(t, []string{"10:30 PM"}, labels(resp.Days[0].Times))
	assert.Equal(t, "2025-06-02", resp.Days[1].Date.Format(domain.DateFormat))
	assert.Equal(t, []string{"10:00 AM"}, labels(resp.Days[1].Times))
}

func TestExecute_ResourceIncrementAndHorizon(t *testing.T) {
	resourceID := int64(10)
	settings := fakeSettings{all: []*domain.SlotSettings{
		{ProviderID: 1, OfferIncrementMinutes: 60, AdvanceBookingDays: 2},
		{ProviderID: 1, ResourceID: &resourceID, OfferIncrementMinutes: 30, AdvanceBookingDays: 2},
	}}
	slots := &fakeSlots{slots: []*domain.Slot{
		slotAt(1, 10, "Dr. Hale", at(9, 0), time.Hour),
		slotAt(2, 11, "Nurse Kim", at(13, 0), time.Hour),
		slotAt(3, 10, "Dr. Hale", at(9, 0).AddDate(0, 0, 5), time.Hour),
	}}

	resp, err := newUseCase(slots, "UTC", settings).Execute(context.Background(), &Request{ProviderID: 1})

	require.NoError(t, err)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, []string{"9:00 AM", "9:30 AM", "1:00 PM"}, labels(resp.Days[0].Times))
}

func TestExecute_FallbackIsIndicative(t *testing.T) {
	resp, err := newUseCase(&fakeSlots{}, "UTC", fakeSettings{}).Execute(context.Background(), &Request{ProviderID: 1})

	require.NoError(t, err)
	assert.True(t, resp.Indicative)
	require.Len(t, resp.Days, domain.DefaultFallbackDays)
	assert.Equal(t, "2025-06-02", resp.Days[0].Date.Format(domain.DateFormat))
	assert.Equal(t, "2025-06-15", resp.Days[len(resp.Days)-1].Date.Format(domain.DateFormat))

	for _, day := range resp.Days {
		assert.Equal(t, domain.DefaultFallbackTimes, labels(day.Times))
		for _, c := range day.Times {
			assert.Nil(t, c.SlotID)
			assert.Nil(t, c.StartAt)
		}
	}
}

func TestExecute_FallbackAnchoredOnToday(t *testing.T) {
	resp, err := newUseCase(&fakeSlots{}, "UTC", fakeSettings{}).Execute(context.Background(), &Request{
		ProviderID: 1,
		From:       now.AddDate(0, 0, 30),
	})

	require.NoError(t, err)
	assert.True(t, resp.Indicative)
	require.Len(t, resp.Days, domain.DefaultFallbackDays)
	assert.Equal(t, "2025-06-02", resp.Days[0].Date.Format(domain.DateFormat))
}

func TestExecute_NoSlotsAfterFromIsNotIndicative(t *testing.T) {
	slots := &fakeSlots{slots: []*domain.Slot{
		slotAt(1, 10, "Dr. Hale", at(11, 0), time.Hour),
	}}

	resp, err := newUseCase(slots, "UTC", fakeSettings{}).Execute(context.Background(), &Request{
		ProviderID: 1,
		From:       now.AddDate(0, 0, 30),
	})

	require.NoError(t, err)
	assert.False(t, resp.Indicative)
	assert.NotNil(t, resp.Days)
	assert.Empty(t, resp.Days)
}

func TestExecute_Errors(t *testing.T) {
	uc := newUseCase(&fakeSlots{}, "UTC", fakeSettings{})

	_, err := uc.Execute(context.Background(), &Request{ProviderID: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{ProviderID: 42})
	assert.ErrorIs(t, err, ErrProviderNotFound)
}
