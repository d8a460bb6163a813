package slots

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	providerRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/provider"
	slotRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ConciergeService/internal/service/slots/models"
	"github.com/m04kA/SMC-ConciergeService/pkg/logger"
	"github.com/m04kA/SMC-ConciergeService/pkg/ptr"
)

// memorySlots хранилище слотов в памяти с той же семантикой, что и репозиторий
type memorySlots struct {
	mu     sync.Mutex
	nextID int64
	slots  map[int64]domain.Slot
}

func newMemorySlots() *memorySlots {
	return &memorySlots{slots: make(map[int64]domain.Slot)}
}

func (m *memorySlots) Create(_ context.Context, slot *domain.Slot) (*domain.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	slot.ID = m.nextID
	m.slots[slot.ID] = *slot
	return slot, nil
}

func (m *memorySlots) GetByID(_ context.Context, id int64) (*domain.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	return &s, nil
}

func (m *memorySlots) List(_ context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Slot, 0)
	for _, s := range m.slots {
		s := s
		if s.ProviderID != filter.ProviderID {
			continue
		}
		if filter.From != nil && filter.To != nil && !s.Overlaps(*filter.From, *filter.To) {
			continue
		}
		result = append(result, &s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartAt.Before(result[j].StartAt) })
	return result, nil
}

func (m *memorySlots) ListOverlapping(_ context.Context, providerID int64, resourceID *int64, start, end time.Time, kinds []domain.SlotKind, excludeID *int64) ([]*domain.Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Slot, 0)
	for _, s := range m.slots {
		s := s
		if s.ProviderID != providerID || !sameResource(s.ResourceID, resourceID) || !s.Overlaps(start, end) {
			continue
		}
		if excludeID != nil && s.ID == *excludeID {
			continue
		}
		if !containsKind(kinds, s.Kind) {
			continue
		}
		result = append(result, &s)
	}
	return result, nil
}

func (m *memorySlots) Update(_ context.Context, id int64, update domain.SlotUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok || s.IsBooked() {
		return slotRepo.ErrSlotNotFound
	}
	m.slots[id] = update.ApplyTo(s)
	return nil
}

func (m *memorySlots) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[id]
	if !ok || s.IsBooked() {
		return slotRepo.ErrSlotNotFound
	}
	delete(m.slots, id)
	return nil
}

func sameResource(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func containsKind(kinds []domain.SlotKind, kind domain.SlotKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

type memoryProviders struct {
	providers map[int64]*domain.Provider
	resources []*domain.Resource
}

func (m *memoryProviders) GetByID(_ context.Context, id int64) (*domain.Provider, error) {
	p, ok := m.providers[id]
	if !ok {
		return nil, providerRepo.ErrProviderNotFound
	}
	return p, nil
}

func (m *memoryProviders) ListResources(_ context.Context, providerID int64) ([]*domain.Resource, error) {
	result := make([]*domain.Resource, 0)
	for _, r := range m.resources {
		if r.ProviderID == providerID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *memoryProviders) GetResource(_ context.Context, id int64) (*domain.Resource, error) {
	for _, r := range m.resources {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, providerRepo.ErrResourceNotFound
}

func (m *memoryProviders) CreateResource(_ context.Context, res *domain.Resource) (*domain.Resource, error) {
	res.ID = int64(len(m.resources) + 100)
	m.resources = append(m.resources, res)
	return res, nil
}

type inlineTx struct{}

func (inlineTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type recordingNotifier struct {
	calls []int64
}

func (n *recordingNotifier) SlotsChanged(_ context.Context, providerID int64) {
	n.calls = append(n.calls, providerID)
}

type fixture struct {
	svc       *Service
	slots     *memorySlots
	providers *memoryProviders
	notifier  *recordingNotifier
}

func newFixture() *fixture {
	f := &fixture{
		slots: newMemorySlots(),
		providers: &memoryProviders{
			providers: map[int64]*domain.Provider{
				1: {ID: 1, Name: "Glow Clinic"},
				2: {ID: 2, Name: "Lumi Med Spa"},
			},
			resources: []*domain.Resource{{ID: 10, ProviderID: 1, Name: "Dr. Reyes", IsDefault: true}},
		},
		notifier: &recordingNotifier{},
	}
	f.svc = NewService(f.slots, f.providers, f.notifier, inlineTx{}, nil, logger.NewNop())
	return f
}

var base = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

func hours(h int) time.Time {
	return base.Add(time.Duration(h) * time.Hour)
}

func TestCreateSlot_DefaultResourceAndRecompute(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		ProviderID: 1,
		StartAt:    hours(0),
		EndAt:      hours(3),
		Kind:       domain.SlotAvailable,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.ResourceID)
	assert.Equal(t, int64(10), *resp.ResourceID)
	assert.Equal(t, domain.StylePositive, resp.StyleHint)
	assert.Equal(t, []int64{1}, f.notifier.calls)
}

func TestCreateSlot_ProvisionsDefaultResource(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		ProviderID: 2,
		StartAt:    hours(0),
		EndAt:      hours(1),
		Kind:       domain.SlotAvailable,
	})

	require.NoError(t, err)
	resources, _ := f.providers.ListResources(context.Background(), 2)
	require.Len(t, resources, 1)
	assert.True(t, resources[0].IsDefault)
	assert.Equal(t, domain.DefaultResourceName, resources[0].Name)
	assert.Equal(t, resources[0].ID, *resp.ResourceID)
}

func TestCreateSlot_Overlap(t *testing.T) {
	tests := []struct {
		name     string
		existing domain.SlotKind
		newKind  domain.SlotKind
		wantErr  error
	}{
		{name: "available over available", existing: domain.SlotAvailable, newKind: domain.SlotAvailable, wantErr: ErrOverlap},
		{name: "available over booked", existing: domain.SlotBooked, newKind: domain.SlotAvailable, wantErr: ErrOverlap},
		{name: "available over blocked", existing: domain.SlotBlocked, newKind: domain.SlotAvailable, wantErr: ErrOverlap},
		{name: "blocked over available", existing: domain.SlotAvailable, newKind: domain.SlotBlocked, wantErr: ErrOverlap},
		{name: "blocked over booked", existing: domain.SlotBooked, newKind: domain.SlotBlocked, wantErr: ErrOverlap},
		{name: "blocked over blocked", existing: domain.SlotBlocked, newKind: domain.SlotBlocked, wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.slots.Create(context.Background(), &domain.Slot{
				ProviderID: 1, ResourceID: ptr.Ptr(int64(10)),
				StartAt: hours(0), EndAt: hours(2), Kind: tt.existing,
			})
			require.NoError(t, err)

			req := &models.CreateSlotRequest{
				ProviderID: 1,
				StartAt:    hours(1),
				EndAt:      hours(3),
				Kind:       tt.newKind,
			}
			if tt.newKind == domain.SlotBlocked {
				req.BlockReason = ptr.Ptr(domain.BlockTraining)
			}

			_, err = f.svc.CreateSlot(context.Background(), req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.notifier.calls)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCreateSlot_AdjacentSlotsDoNotOverlap(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateSlot(ctx, &models.CreateSlotRequest{ProviderID: 1, StartAt: hours(0), EndAt: hours(1), Kind: domain.SlotAvailable})
	require.NoError(t, err)
	_, err = f.svc.CreateSlot(ctx, &models.CreateSlotRequest{ProviderID: 1, StartAt: hours(1), EndAt: hours(2), Kind: domain.SlotAvailable})
	assert.NoError(t, err)
}

func TestCreateSlot_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateSlotRequest
	}{
		{name: "end before start", req: models.CreateSlotRequest{ProviderID: 1, StartAt: hours(2), EndAt: hours(1), Kind: domain.SlotAvailable}},
		{name: "zero length", req: models.CreateSlotRequest{ProviderID: 1, StartAt: hours(1), EndAt: hours(1), Kind: domain.SlotAvailable}},
		{name: "booked kind", req: models.CreateSlotRequest{ProviderID: 1, StartAt: hours(0), EndAt: hours(1), Kind: domain.SlotBooked}},
		{name: "blocked without reason", req: models.CreateSlotRequest{ProviderID: 1, StartAt: hours(0), EndAt: hours(1), Kind: domain.SlotBlocked}},
		{name: "unknown kind", req: models.CreateSlotRequest{ProviderID: 1, StartAt: hours(0), EndAt: hours(1), Kind: "tentative"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.CreateSlot(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestCreateSlot_ForeignResource(t *testing.T) {
	f := newFixture()
	f.providers.resources = append(f.providers.resources, &domain.Resource{ID: 20, ProviderID: 2, Name: "Room B"})

	_, err := f.svc.CreateSlot(context.Background(), &models.CreateSlotRequest{
		ProviderID: 1,
		ResourceID: ptr.Ptr(int64(20)),
		StartAt:    hours(0),
		EndAt:      hours(1),
		Kind:       domain.SlotAvailable,
	})

	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestUpdateSlot_BookedIsImmutable(t *testing.T) {
	f := newFixture()
	booked, _ := f.slots.Create(context.Background(), &domain.Slot{
		ProviderID: 1, ResourceID: ptr.Ptr(int64(10)),
		StartAt: hours(0), EndAt: hours(1), Kind: domain.SlotBooked, BookingID: ptr.Ptr(int64(5)),
	})

	_, err := f.svc.UpdateSlot(context.Background(), &models.UpdateSlotRequest{
		SlotID: booked.ID,
		Kind:   ptr.Ptr(domain.SlotBlocked),
	})
	assert.ErrorIs(t, err, ErrImmutableBookedSlot)

	err = f.svc.DeleteSlot(context.Background(), booked.ID, 1)
	assert.ErrorIs(t, err, ErrImmutableBookedSlot)

	stored, _ := f.slots.GetByID(context.Background(), booked.ID)
	assert.Equal(t, domain.SlotBooked, stored.Kind)
}

func TestUpdateSlot_CannotMarkBooked(t *testing.T) {
	f := newFixture()
	slot, _ := f.slots.Create(context.Background(), &domain.Slot{
		ProviderID: 1, ResourceID: ptr.Ptr(int64(10)),
		StartAt: hours(0), EndAt: hours(1), Kind: domain.SlotAvailable,
	})

	_, err := f.svc.UpdateSlot(context.Background(), &models.UpdateSlotRequest{
		SlotID: slot.ID,
		Kind:   ptr.Ptr(domain.SlotBooked),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateSlot_ReclassifyClearsBlockFields(t *testing.T) {
	f := newFixture()
	slot, _ := f.slots.Create(context.Background(), &domain.Slot{
		ProviderID: 1, ResourceID: ptr.Ptr(int64(10)),
		StartAt: hours(0), EndAt: hours(1), Kind: domain.SlotBlocked,
		BlockReason: ptr.Ptr(domain.BlockHoliday), BlockNote: ptr.Ptr("Closed"),
	})

	resp, err := f.svc.UpdateSlot(context.Background(), &models.UpdateSlotRequest{
		SlotID: slot.ID,
		Kind:   ptr.Ptr(domain.SlotAvailable),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.SlotAvailable, resp.Kind)
	assert.Nil(t, resp.BlockReason)
	assert.Nil(t, resp.BlockNote)
	assert.Equal(t, []int64{1}, f.notifier.calls)
}

func TestUpdateSlot_RetimeIntoNeighbourOverlaps(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	first, _ := f.svc.CreateSlot(ctx, &models.CreateSlotRequest{ProviderID: 1, StartAt: hours(0), EndAt: hours(1), Kind: domain.SlotAvailable})
	_, _ = f.svc.CreateSlot(ctx, &models.CreateSlotRequest{ProviderID: 1, StartAt: hours(2), EndAt: hours(3), Kind: domain.SlotAvailable})

	_, err := f.svc.UpdateSlot(ctx, &models.UpdateSlotRequest{SlotID: first.ID, EndAt: ptr.Ptr(hours(2).Add(30 * time.Minute))})
	assert.ErrorIs(t, err, ErrOverlap)

	// Расширение самого себя не считается пересечением
	_, err = f.svc.UpdateSlot(ctx, &models.UpdateSlotRequest{SlotID: first.ID, EndAt: ptr.Ptr(hours(2))})
	assert.NoError(t, err)
}

func TestDeleteSlot(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateSlot(context.Background(), &models.CreateSlotRequest{ProviderID: 1, StartAt: hours(0), EndAt: hours(1), Kind: domain.SlotAvailable})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteSlot(context.Background(), created.ID, 1))
	assert.Equal(t, []int64{1, 1}, f.notifier.calls)

	err = f.svc.DeleteSlot(context.Background(), created.ID, 1)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestListSlots_StyleHints(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, _ = f.slots.Create(ctx, &domain.Slot{ProviderID: 1, StartAt: hours(0), EndAt: hours(1), Kind: domain.SlotAvailable})
	_, _ = f.slots.Create(ctx, &domain.Slot{ProviderID: 1, StartAt: hours(1), EndAt: hours(2), Kind: domain.SlotBlocked})
	_, _ = f.slots.Create(ctx, &domain.Slot{ProviderID: 1, StartAt: hours(2), EndAt: hours(3), Kind: domain.SlotBooked})
	_, _ = f.slots.Create(ctx, &domain.Slot{ProviderID: 1, StartAt: hours(30), EndAt: hours(31), Kind: domain.SlotAvailable})

	resp, err := f.svc.ListSlots(ctx, &models.ListSlotsRequest{ProviderID: 1, From: hours(0), To: hours(24)})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 3)
	assert.Equal(t, domain.StylePositive, resp.Slots[0].StyleHint)
	assert.Equal(t, domain.StyleNeutral, resp.Slots[1].StyleHint)
	assert.Equal(t, domain.StyleInformational, resp.Slots[2].StyleHint)
}

func TestListSlots_InvalidRange(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ListSlots(context.Background(), &models.ListSlotsRequest{ProviderID: 1, From: hours(5), To: hours(1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.ListSlots(context.Background(), &models.ListSlotsRequest{ProviderID: 1, From: hours(0), To: hours(24 * 90)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEditor_NeverProducesOverlappingActiveSlots(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	kinds := []domain.SlotKind{domain.SlotAvailable, domain.SlotAvailable, domain.SlotBlocked}

	for round := 0; round < 50; round++ {
		f := newFixture()
		ctx := context.Background()

		// Часть времени уже забронирована
		_, _ = f.slots.Create(ctx, &domain.Slot{
			ProviderID: 1, ResourceID: ptr.Ptr(int64(10)),
			StartAt: hours(rng.Intn(10)), EndAt: hours(10 + rng.Intn(3)), Kind: domain.SlotBooked,
		})

		var created []int64
		for step := 0; step < 30; step++ {
			start := rng.Intn(20)
			length := 1 + rng.Intn(4)
			kind := kinds[rng.Intn(len(kinds))]

			if len(created) > 0 && rng.Intn(3) == 0 {
				id := created[rng.Intn(len(created))]
				_, _ = f.svc.UpdateSlot(ctx, &models.UpdateSlotRequest{
					SlotID:  id,
					StartAt: ptr.Ptr(hours(start)),
					EndAt:   ptr.Ptr(hours(start + length)),
				})
				continue
			}

			req := &models.CreateSlotRequest{ProviderID: 1, StartAt: hours(start), EndAt: hours(start + length), Kind: kind}
			if kind == domain.SlotBlocked {
				req.BlockReason = ptr.Ptr(domain.BlockPersonal)
			}
			if resp, err := f.svc.CreateSlot(ctx, req); err == nil {
				created = append(created, resp.ID)
			}
		}

		all, _ := f.slots.List(ctx, domain.SlotFilter{ProviderID: 1})
		var active []*domain.Slot
		for _, s := range all {
			if s.Kind == domain.SlotAvailable || s.Kind == domain.SlotBooked {
				active = append(active, s)
			}
		}
		for i := 0; i < len(active); i++ {
			for j := i + 1; j < len(active); j++ {
				assert.False(t, active[i].Overlaps(active[j].StartAt, active[j].EndAt),
					"round %d: slot %d overlaps slot %d", round, active[i].ID, active[j].ID)
			}
		}
	}
}
