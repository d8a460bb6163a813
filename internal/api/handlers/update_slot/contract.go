package update_slot

import (
	"context"

	"github.com/m04kA/SMC-ConciergeService/internal/service/slots/models"
)

type SlotService interface {
	UpdateSlot(ctx context.Context, req *models.UpdateSlotRequest) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
