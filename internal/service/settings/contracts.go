package settings

import (
	"context"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек выдачи слотов
type SettingsRepository interface {
	ListByProvider(ctx context.Context, providerID int64) ([]*domain.SlotSettings, error)
	Get(ctx context.Context, providerID int64, resourceID *int64) (*domain.SlotSettings, error)
	Upsert(ctx context.Context, s *domain.SlotSettings) (*domain.SlotSettings, error)
}

// ProviderRepository интерфейс репозитория провайдеров
type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
	GetResource(ctx context.Context, id int64) (*domain.Resource, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
