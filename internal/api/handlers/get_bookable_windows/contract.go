package get_bookable_windows

import (
	"context"

	getWindows "github.com/m04kA/SMC-ConciergeService/internal/usecase/get_bookable_windows"
)

type GetBookableWindowsUseCase interface {
	Execute(ctx context.Context, req *getWindows.Request) (*getWindows.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
