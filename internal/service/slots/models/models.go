package models

import (
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
)

// Request модели

// CreateSlotRequest запрос на создание слота в календаре провайдера
type CreateSlotRequest struct {
	UserID      int64               `json:"-"`
	ProviderID  int64               `json:"-"`
	ResourceID  *int64              `json:"resourceId,omitempty"` // nil = ресурс по умолчанию
	StartAt     time.Time           `json:"startAt"`
	EndAt       time.Time           `json:"endAt"`
	Kind        domain.SlotKind     `json:"kind"` // available | blocked
	BlockReason *domain.BlockReason `json:"blockReason,omitempty"`
	BlockNote   *string             `json:"blockNote,omitempty"`
}

// UpdateSlotRequest запрос на изменение слота
// Все поля опциональны - обновляются только переданные значения
type UpdateSlotRequest struct {
	UserID      int64               `json:"-"`
	SlotID      int64               `json:"-"`
	ResourceID  *int64              `json:"resourceId,omitempty"`
	StartAt     *time.Time          `json:"startAt,omitempty"`
	EndAt       *time.Time          `json:"endAt,omitempty"`
	Kind        *domain.SlotKind    `json:"kind,omitempty"`
	BlockReason *domain.BlockReason `json:"blockReason,omitempty"`
	BlockNote   *string             `json:"blockNote,omitempty"`
}

// ToDomainUpdate преобразует запрос в частичное обновление слота
func (r *UpdateSlotRequest) ToDomainUpdate() domain.SlotUpdate {
	update := domain.SlotUpdate{
		ResourceID:  r.ResourceID,
		Kind:        r.Kind,
		BlockReason: r.BlockReason,
		BlockNote:   r.BlockNote,
	}
	if r.StartAt != nil {
		start := r.StartAt.UTC()
		update.StartAt = &start
	}
	if r.EndAt != nil {
		end := r.EndAt.UTC()
		update.EndAt = &end
	}
	return update
}

// ListSlotsRequest запрос календаря провайдера за видимый диапазон
type ListSlotsRequest struct {
	ProviderID int64
	ResourceID *int64
	From       time.Time
	To         time.Time
}

// Response модели

// SlotResponse слот календаря с подсказкой отрисовки
type SlotResponse struct {
	ID           int64               `json:"id"`
	ProviderID   int64               `json:"providerId"`
	ResourceID   *int64              `json:"resourceId,omitempty"`
	ResourceName *string             `json:"resourceName,omitempty"`
	StartAt      time.Time           `json:"startAt"`
	EndAt        time.Time           `json:"endAt"`
	Kind         domain.SlotKind     `json:"kind"`
	BlockReason  *domain.BlockReason `json:"blockReason,omitempty"`
	BlockNote    *string             `json:"blockNote,omitempty"`
	BookingID    *int64              `json:"bookingId,omitempty"`
	StyleHint    domain.StyleHint    `json:"styleHint"`
}

// SlotListResponse календарь провайдера
type SlotListResponse struct {
	ProviderID int64           `json:"providerId"`
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Slots      []*SlotResponse `json:"slots"`
}

// ResourceResponse ресурс провайдера
type ResourceResponse struct {
	ID         int64  `json:"id"`
	ProviderID int64  `json:"providerId"`
	Name       string `json:"name"`
	IsDefault  bool   `json:"isDefault"`
}

// Функции преобразования

// FromDomainSlot преобразует доменный слот в ответ
func FromDomainSlot(slot *domain.Slot) *SlotResponse {
	return &SlotResponse{
		ID:           slot.ID,
		ProviderID:   slot.ProviderID,
		ResourceID:   slot.ResourceID,
		ResourceName: slot.ResourceName,
		StartAt:      slot.StartAt,
		EndAt:        slot.EndAt,
		Kind:         slot.Kind,
		BlockReason:  slot.BlockReason,
		BlockNote:    slot.BlockNote,
		BookingID:    slot.BookingID,
		StyleHint:    slot.StyleHint(),
	}
}

// FromDomainSlots преобразует список слотов
func FromDomainSlots(slots []*domain.Slot) []*SlotResponse {
	result := make([]*SlotResponse, 0, len(slots))
	for _, s := range slots {
		result = append(result, FromDomainSlot(s))
	}
	return result
}

// FromDomainResource преобразует ресурс в ответ
func FromDomainResource(res *domain.Resource) *ResourceResponse {
	return &ResourceResponse{
		ID:         res.ID,
		ProviderID: res.ProviderID,
		Name:       res.Name,
		IsDefault:  res.IsDefault,
	}
}
