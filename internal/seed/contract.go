package seed

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
)

type ProviderRepository interface {
	Create(ctx context.Context, p *domain.Provider) (*domain.Provider, error)
	CreateResource(ctx context.Context, res *domain.Resource) (*domain.Resource, error)
}

type SlotRepository interface {
	Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error)
	CountAvailable(ctx context.Context, providerID int64, from time.Time) (int, error)
}

type AvailabilityRecomputer interface {
	Recompute(ctx context.Context, providerID int64) (*domain.NextAvailable, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type TimeProvider interface {
	Now() time.Time
}

type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now()
}
