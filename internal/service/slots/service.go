package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	providerRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/provider"
	slotRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-ConciergeService/internal/service/slots/models"
	"github.com/m04kA/SMC-ConciergeService/pkg/metrics"
)

const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

// Service редактор календаря провайдера
type Service struct {
	slotRepo     SlotRepository
	providerRepo ProviderRepository
	availability AvailabilityNotifier
	txManager    TransactionManager
	metrics      *metrics.Metrics
	logger       Logger
}

// NewService создает новый экземпляр редактора слотов
func NewService(
	slotRepo SlotRepository,
	providerRepo ProviderRepository,
	availability AvailabilityNotifier,
	txManager TransactionManager,
	m *metrics.Metrics,
	logger Logger,
) *Service {
	return &Service{
		slotRepo:     slotRepo,
		providerRepo: providerRepo,
		availability: availability,
		txManager:    txManager,
		metrics:      m,
		logger:       logger,
	}
}

// CreateSlot создает available или blocked слот.
// Если ресурс не указан, слот создаётся на ресурсе по умолчанию; провайдеру без ресурсов
// ресурс по умолчанию создаётся автоматически.
// Пересечение с available/booked слотами ресурса (а для available - и с blocked) даёт ErrOverlap.
func (s *Service) CreateSlot(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("CreateSlot: provider=%d, resource=%v, kind=%s, %s - %s by user=%d",
		req.ProviderID, req.ResourceID, req.Kind,
		req.StartAt.Format(time.RFC3339), req.EndAt.Format(time.RFC3339), req.UserID)

	if err := validateCreate(req); err != nil {
		s.logger.Warn("CreateSlot: validation failed: %v", err)
		s.metrics.IncSlotMutation(opCreate, metrics.ResultRejected)
		return nil, err
	}

	if _, err := s.getProvider(ctx, req.ProviderID); err != nil {
		s.logger.Warn("CreateSlot: %v", err)
		return nil, err
	}

	var created *domain.Slot
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		resourceID, err := s.resolveResource(txCtx, req.ProviderID, req.ResourceID)
		if err != nil {
			return err
		}

		if err := s.checkOverlap(txCtx, req.ProviderID, resourceID, req.StartAt, req.EndAt, req.Kind, nil); err != nil {
			return err
		}

		slot := &domain.Slot{
			ProviderID:  req.ProviderID,
			ResourceID:  resourceID,
			StartAt:     req.StartAt.UTC(),
			EndAt:       req.EndAt.UTC(),
			Kind:        req.Kind,
			BlockReason: req.BlockReason,
			BlockNote:   req.BlockNote,
		}
		if slot.Kind != domain.SlotBlocked {
			slot.BlockReason = nil
			slot.BlockNote = nil
		}

		created, err = s.slotRepo.Create(txCtx, slot)
		if err != nil {
			if errors.Is(err, slotRepo.ErrOverlap) {
				return ErrOverlap
			}
			return err
		}
		return nil
	})

	if err != nil {
		s.recordFailure(opCreate, err)
		return nil, s.translate("CreateSlot", err)
	}

	s.metrics.IncSlotMutation(opCreate, metrics.ResultSuccess)
	s.availability.SlotsChanged(ctx, req.ProviderID)

	s.logger.Info("CreateSlot: created slot id=%d for provider=%d", created.ID, req.ProviderID)
	return models.FromDomainSlot(created), nil
}

// UpdateSlot изменяет время, ресурс, тип или причину блокировки слота.
// Забронированный слот не изменяется (ErrImmutableBookedSlot); перевести слот в booked
// может только бронирование.
func (s *Service) UpdateSlot(ctx context.Context, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	s.logger.Info("UpdateSlot: slot=%d by user=%d", req.SlotID, req.UserID)

	update := req.ToDomainUpdate()
	if update.IsEmpty() {
		s.logger.Warn("UpdateSlot: empty update for slot=%d", req.SlotID)
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if update.Kind != nil && *update.Kind == domain.SlotBooked {
		s.logger.Warn("UpdateSlot: attempt to mark slot=%d as booked", req.SlotID)
		s.metrics.IncSlotMutation(opUpdate, metrics.ResultRejected)
		return nil, fmt.Errorf("%w: slots are booked only through reservation", ErrInvalidInput)
	}

	var updated *domain.Slot
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.slotRepo.GetByID(txCtx, req.SlotID)
		if err != nil {
			return err
		}

		if current.IsBooked() {
			return ErrImmutableBookedSlot
		}

		merged := update.ApplyTo(*current)
		if err := validateSlot(merged.StartAt, merged.EndAt, merged.Kind, merged.BlockReason, merged.BlockNote); err != nil {
			return err
		}

		if update.ResourceID != nil {
			if err := s.checkResourceOwner(txCtx, current.ProviderID, *update.ResourceID); err != nil {
				return err
			}
		}

		if err := s.checkOverlap(txCtx, current.ProviderID, merged.ResourceID, merged.StartAt, merged.EndAt, merged.Kind, &current.ID); err != nil {
			return err
		}

		// Причина блокировки имеет смысл только для blocked слота
		apply := update
		if merged.Kind != domain.SlotBlocked {
			apply.BlockReason = nil
			apply.BlockNote = nil
		}

		if err := s.slotRepo.Update(txCtx, current.ID, apply); err != nil {
			if errors.Is(err, slotRepo.ErrOverlap) {
				return ErrOverlap
			}
			return err
		}

		updated, err = s.slotRepo.GetByID(txCtx, current.ID)
		return err
	})

	if err != nil {
		s.recordFailure(opUpdate, err)
		return nil, s.translate("UpdateSlot", err)
	}

	s.metrics.IncSlotMutation(opUpdate, metrics.ResultSuccess)
	s.availability.SlotsChanged(ctx, updated.ProviderID)

	s.logger.Info("UpdateSlot: updated slot id=%d (kind=%s)", updated.ID, updated.Kind)
	return models.FromDomainSlot(updated), nil
}

// DeleteSlot удаляет слот. Забронированный слот не удаляется (ErrImmutableBookedSlot).
func (s *Service) DeleteSlot(ctx context.Context, slotID, userID int64) error {
	s.logger.Info("DeleteSlot: slot=%d by user=%d", slotID, userID)

	var providerID int64
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := s.slotRepo.GetByID(txCtx, slotID)
		if err != nil {
			return err
		}

		if current.IsBooked() {
			return ErrImmutableBookedSlot
		}
		providerID = current.ProviderID

		return s.slotRepo.Delete(txCtx, slotID)
	})

	if err != nil {
		s.recordFailure(opDelete, err)
		return s.translate("DeleteSlot", err)
	}

	s.metrics.IncSlotMutation(opDelete, metrics.ResultSuccess)
	s.availability.SlotsChanged(ctx, providerID)

	s.logger.Info("DeleteSlot: deleted slot id=%d of provider=%d", slotID, providerID)
	return nil
}

// ListSlots возвращает все слоты провайдера, пересекающие видимый диапазон [From, To)
func (s *Service) ListSlots(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	s.logger.Info("ListSlots: provider=%d, %s - %s",
		req.ProviderID, req.From.Format(time.RFC3339), req.To.Format(time.RFC3339))

	if !req.From.Before(req.To) {
		return nil, fmt.Errorf("%w: from must be before to", ErrInvalidInput)
	}
	if req.To.Sub(req.From) > domain.MaxListRangeDays*24*time.Hour {
		return nil, fmt.Errorf("%w: range exceeds %d days", ErrInvalidInput, domain.MaxListRangeDays)
	}

	if _, err := s.getProvider(ctx, req.ProviderID); err != nil {
		return nil, err
	}

	from, to := req.From, req.To
	slots, err := s.slotRepo.List(ctx, domain.SlotFilter{
		ProviderID: req.ProviderID,
		ResourceID: req.ResourceID,
		From:       &from,
		To:         &to,
	})
	if err != nil {
		s.logger.Error("ListSlots: repository error for provider=%d: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: ListSlots - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListSlots: found %d slots for provider=%d", len(slots), req.ProviderID)
	return &models.SlotListResponse{
		ProviderID: req.ProviderID,
		From:       req.From,
		To:         req.To,
		Slots:      models.FromDomainSlots(slots),
	}, nil
}

// ListResources возвращает ресурсы провайдера
func (s *Service) ListResources(ctx context.Context, providerID int64) ([]*models.ResourceResponse, error) {
	if _, err := s.getProvider(ctx, providerID); err != nil {
		return nil, err
	}

	resources, err := s.providerRepo.ListResources(ctx, providerID)
	if err != nil {
		s.logger.Error("ListResources: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: ListResources - repository error: %v", ErrInternal, err)
	}

	result := make([]*models.ResourceResponse, 0, len(resources))
	for _, r := range resources {
		result = append(result, models.FromDomainResource(r))
	}
	return result, nil
}

// EnsureDefaultResource возвращает ресурс по умолчанию, создавая его, если у провайдера нет ресурсов
func (s *Service) EnsureDefaultResource(ctx context.Context, providerID int64) (*domain.Resource, error) {
	resources, err := s.providerRepo.ListResources(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("%w: EnsureDefaultResource - list resources: %v", ErrInternal, err)
	}

	// ListResources отдаёт ресурс по умолчанию первым
	if len(resources) > 0 {
		return resources[0], nil
	}

	res, err := s.providerRepo.CreateResource(ctx, &domain.Resource{
		ProviderID: providerID,
		Name:       domain.DefaultResourceName,
		IsDefault:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: EnsureDefaultResource - create resource: %v", ErrInternal, err)
	}

	s.logger.Info("EnsureDefaultResource: provisioned default resource id=%d for provider=%d", res.ID, providerID)
	return res, nil
}

func (s *Service) getProvider(ctx context.Context, providerID int64) (*domain.Provider, error) {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("%w: get provider: %v", ErrInternal, err)
	}
	return provider, nil
}

// resolveResource возвращает ресурс, на котором будет создан слот
func (s *Service) resolveResource(ctx context.Context, providerID int64, resourceID *int64) (*int64, error) {
	if resourceID != nil {
		if err := s.checkResourceOwner(ctx, providerID, *resourceID); err != nil {
			return nil, err
		}
		return resourceID, nil
	}

	res, err := s.EnsureDefaultResource(ctx, providerID)
	if err != nil {
		return nil, err
	}
	return &res.ID, nil
}

func (s *Service) checkResourceOwner(ctx context.Context, providerID, resourceID int64) error {
	res, err := s.providerRepo.GetResource(ctx, resourceID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrResourceNotFound) {
			return ErrResourceNotFound
		}
		return err
	}
	if res.ProviderID != providerID {
		return ErrResourceNotFound
	}
	return nil
}

// checkOverlap ищет конфликтующие слоты ресурса. Внутри транзакции найденные строки
// блокируются до её завершения.
func (s *Service) checkOverlap(
	ctx context.Context,
	providerID int64,
	resourceID *int64,
	start, end time.Time,
	kind domain.SlotKind,
	excludeID *int64,
) error {
	conflicts, err := s.slotRepo.ListOverlapping(ctx, providerID, resourceID, start, end, domain.ConflictingKinds(kind), excludeID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		c := conflicts[0]
		s.logger.Warn("checkOverlap: %s slot %s - %s conflicts with %s slot id=%d (%s - %s)",
			kind, start.Format(time.RFC3339), end.Format(time.RFC3339),
			c.Kind, c.ID, c.StartAt.Format(time.RFC3339), c.EndAt.Format(time.RFC3339))
		return ErrOverlap
	}
	return nil
}

// translate приводит ошибки репозиториев к ошибкам сервиса
func (s *Service) translate(op string, err error) error {
	switch {
	case errors.Is(err, ErrOverlap),
		errors.Is(err, ErrImmutableBookedSlot),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrResourceNotFound),
		errors.Is(err, ErrProviderNotFound):
		s.logger.Warn("%s: %v", op, err)
		return err
	case errors.Is(err, slotRepo.ErrSlotNotFound):
		s.logger.Warn("%s: slot not found", op)
		return ErrSlotNotFound
	default:
		s.logger.Error("%s: %v", op, err)
		return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
	}
}

func (s *Service) recordFailure(op string, err error) {
	switch {
	case errors.Is(err, ErrOverlap), errors.Is(err, ErrImmutableBookedSlot):
		s.metrics.IncSlotMutation(op, metrics.ResultConflict)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrResourceNotFound), errors.Is(err, slotRepo.ErrSlotNotFound):
		s.metrics.IncSlotMutation(op, metrics.ResultRejected)
	default:
		s.metrics.IncSlotMutation(op, metrics.ResultError)
	}
}
