package get_bookable_windows

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	// List получает слоты провайдера по фильтру, упорядоченные по началу
	List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error)
	// EarliestAvailable начало ближайшего available слота провайдера не раньше now (nil - таких нет)
	EarliestAvailable(ctx context.Context, providerID int64, now time.Time) (*time.Time, error)
}

// ProviderRepository интерфейс репозитория провайдеров
type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
}

// SettingsProvider источник настроек выдачи слотов с учётом иерархии
type SettingsProvider interface {
	Resolver(ctx context.Context, providerID int64) (*domain.SettingsResolver, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
