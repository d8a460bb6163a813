package list_slots

import (
	"context"

	"github.com/m04kA/SMC-ConciergeService/internal/service/slots/models"
)

type SlotService interface {
	ListSlots(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
