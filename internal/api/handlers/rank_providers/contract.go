package rank_providers

import (
	"context"

	rankProviders "github.com/m04kA/SMC-ConciergeService/internal/usecase/rank_providers"
)

type RankProvidersUseCase interface {
	Execute(ctx context.Context, req *rankProviders.Request) (*rankProviders.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
