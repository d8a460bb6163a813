package slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	"github.com/m04kA/SMC-ConciergeService/internal/service/slots/models"
)

func validateCreate(req *models.CreateSlotRequest) error {
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerId must be positive", ErrInvalidInput)
	}
	if req.Kind == domain.SlotBooked {
		return fmt.Errorf("%w: slots are booked only through reservation", ErrInvalidInput)
	}
	return validateSlot(req.StartAt, req.EndAt, req.Kind, req.BlockReason, req.BlockNote)
}

func validateSlot(start, end time.Time, kind domain.SlotKind, reason *domain.BlockReason, note *string) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: startAt and endAt are required", ErrInvalidInput)
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: startAt must be before endAt", ErrInvalidInput)
	}
	if end.Sub(start) > domain.MaxSlotDurationHours*time.Hour {
		return fmt.Errorf("%w: slot is longer than %d hours", ErrInvalidInput, domain.MaxSlotDurationHours)
	}
	if !domain.IsValidKind(kind) {
		return fmt.Errorf("%w: unknown slot kind %q", ErrInvalidInput, kind)
	}

	if kind == domain.SlotBlocked {
		if reason == nil {
			return fmt.Errorf("%w: blockReason is required for blocked slots", ErrInvalidInput)
		}
		if !domain.IsValidBlockReason(*reason) {
			return fmt.Errorf("%w: unknown block reason %q", ErrInvalidInput, *reason)
		}
	}
	if note != nil && len(*note) > domain.MaxBlockNoteLength {
		return fmt.Errorf("%w: blockNote is longer than %d characters", ErrInvalidInput, domain.MaxBlockNoteLength)
	}

	return nil
}
