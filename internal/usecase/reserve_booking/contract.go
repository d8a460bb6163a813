package reserve_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	"github.com/m04kA/SMC-ConciergeService/internal/integrations/pricing"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Slot, error)
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	// MarkBooked переводит слот available -> booked; ErrSlotNotAvailable, если слот уже не available
	MarkBooked(ctx context.Context, id, bookingID int64, start, end time.Time) error
}

// ProviderRepository интерфейс репозитория провайдеров
type ProviderRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
}

// PriceTable статический прайс-лист процедур
type PriceTable interface {
	Lookup(slug string) (pricing.Procedure, error)
}

// SettingsProvider источник настроек выдачи слотов с учётом иерархии
type SettingsProvider interface {
	Resolver(ctx context.Context, providerID int64) (*domain.SettingsResolver, error)
}

// TaskCreator создаёт задачи после бронирования
type TaskCreator interface {
	CreateForBooking(ctx context.Context, booking *domain.Booking, createdAt time.Time) (int, error)
}

// AvailabilityNotifier пересчитывает ближайший свободный слот провайдера
type AvailabilityNotifier interface {
	SlotsChanged(ctx context.Context, providerID int64)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
