package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	EarliestAvailable(ctx context.Context, providerID int64, now time.Time) (*time.Time, error)
}

// ProviderRepository интерфейс репозитория провайдеров
type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
	ListIDs(ctx context.Context) ([]int64, error)
	UpdateNextAvailable(ctx context.Context, providerID int64, next *domain.NextAvailable) error
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
