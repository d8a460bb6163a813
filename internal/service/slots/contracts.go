package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error)
	ListOverlapping(ctx context.Context, providerID int64, resourceID *int64, start, end time.Time, kinds []domain.SlotKind, excludeID *int64) ([]*domain.Slot, error)
	Update(ctx context.Context, id int64, update domain.SlotUpdate) error
	Delete(ctx context.Context, id int64) error
}

// ProviderRepository интерфейс репозитория провайдеров и ресурсов
type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
	ListResources(ctx context.Context, providerID int64) ([]*domain.Resource, error)
	GetResource(ctx context.Context, id int64) (*domain.Resource, error)
	CreateResource(ctx context.Context, res *domain.Resource) (*domain.Resource, error)
}

// AvailabilityNotifier пересчитывает ближайший свободный слот после мутаций
type AvailabilityNotifier interface {
	SlotsChanged(ctx context.Context, providerID int64)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
