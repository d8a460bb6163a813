package domain

import "time"

// SlotSettings настройки выдачи слотов клиенту.
// Иерархия:
// 1. Конкретный ресурс провайдера (provider_id, resource_id)
// 2. Провайдер целиком (provider_id, NULL)
// 3. Значения по умолчанию из конфигурации сервиса
type SlotSettings struct {
	ID                    int64
	ProviderID            int64
	ResourceID            *int64 // NULL = настройка для всех ресурсов провайдера
	OfferIncrementMinutes int
	AdvanceBookingDays    int // 0 = без ограничений
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// IsProviderWide returns true if the settings apply to every resource of the provider
func (s *SlotSettings) IsProviderWide() bool {
	return s.ResourceID == nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far ahead slots are offered
func (s *SlotSettings) HasAdvanceBookingLimit() bool {
	return s.AdvanceBookingDays > 0
}

// SettingsResolver выбирает настройки по иерархии для набора настроек одного провайдера
type SettingsResolver struct {
	defaults   SlotSettings
	provider   *SlotSettings
	byResource map[int64]*SlotSettings
}

// NewSettingsResolver строит резолвер из всех настроек провайдера и значений по умолчанию
func NewSettingsResolver(all []*SlotSettings, defaults SlotSettings) *SettingsResolver {
	r := &SettingsResolver{
		defaults:   defaults,
		byResource: make(map[int64]*SlotSettings),
	}
	for _, s := range all {
		if s.ResourceID == nil {
			r.provider = s
			continue
		}
		r.byResource[*s.ResourceID] = s
	}
	return r
}

// For возвращает настройки для ресурса (resourceID может быть nil)
func (r *SettingsResolver) For(resourceID *int64) SlotSettings {
	if resourceID != nil {
		if s, ok := r.byResource[*resourceID]; ok {
			return *s
		}
	}
	if r.provider != nil {
		return *r.provider
	}
	return r.defaults
}

// ProviderWide возвращает настройки уровня провайдера (или значения по умолчанию)
func (r *SettingsResolver) ProviderWide() SlotSettings {
	return r.For(nil)
}
