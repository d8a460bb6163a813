package rank_providers

import (
	"context"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
)

// ProviderRepository интерфейс репозитория провайдеров
type ProviderRepository interface {
	// ListByProcedure получает провайдеров, выполняющих процедуру
	ListByProcedure(ctx context.Context, procedureSlug string) ([]*domain.Provider, error)
}

// AvailabilityReader вычисляет ближайший свободный слот провайдера по текущим слотам
type AvailabilityReader interface {
	Peek(ctx context.Context, providerID int64) (*domain.NextAvailable, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
