package models

import (
	"github.com/m04kA/SMC-ConciergeService/internal/domain"
)

// Уровни иерархии настроек
const (
	LevelResource = "resource"
	LevelProvider = "provider"
	LevelDefault  = "default"
)

// Request модели

// GetSettingsRequest запрос действующих настроек
type GetSettingsRequest struct {
	ProviderID int64
	ResourceID *int64 // nil = настройки провайдера целиком
}

// UpdateSettingsRequest запрос на изменение настроек уровня (provider, resource)
// Поля опциональны - не переданные берутся из действующих настроек
type UpdateSettingsRequest struct {
	UserID                int64  `json:"-"`
	ProviderID            int64  `json:"-"`
	ResourceID            *int64 `json:"resourceId,omitempty"`
	OfferIncrementMinutes *int   `json:"offerIncrementMinutes,omitempty"`
	AdvanceBookingDays    *int   `json:"advanceBookingDays,omitempty"` // 0 = без ограничений
}

// ApplyTo применяет обновления к настройкам
func (r *UpdateSettingsRequest) ApplyTo(s *domain.SlotSettings) {
	if r.OfferIncrementMinutes != nil {
		s.OfferIncrementMinutes = *r.OfferIncrementMinutes
	}
	if r.AdvanceBookingDays != nil {
		s.AdvanceBookingDays = *r.AdvanceBookingDays
	}
}

// Response модели

// SettingsResponse действующие настройки с указанием уровня, откуда они взяты
type SettingsResponse struct {
	ProviderID            int64  `json:"providerId"`
	ResourceID            *int64 `json:"resourceId,omitempty"`
	OfferIncrementMinutes int    `json:"offerIncrementMinutes"`
	AdvanceBookingDays    int    `json:"advanceBookingDays"`
	Level                 string `json:"level"`
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(providerID int64, resourceID *int64, s domain.SlotSettings, level string) *SettingsResponse {
	return &SettingsResponse{
		ProviderID:            providerID,
		ResourceID:            resourceID,
		OfferIncrementMinutes: s.OfferIncrementMinutes,
		AdvanceBookingDays:    s.AdvanceBookingDays,
		Level:                 level,
	}
}
