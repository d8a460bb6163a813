package list_resources

import (
	"context"

	"github.com/m04kA/SMC-ConciergeService/internal/service/slots/models"
)

type SlotService interface {
	ListResources(ctx context.Context, providerID int64) ([]*models.ResourceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
