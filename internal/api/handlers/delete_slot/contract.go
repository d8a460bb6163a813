package delete_slot

import "context"

type SlotService interface {
	DeleteSlot(ctx context.Context, slotID, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
