package reserve_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(req.ProcedureSlug) == "" {
		return fmt.Errorf("%w: procedure is required", ErrInvalidInput)
	}
	if req.PreferredDate.IsZero() {
		return fmt.Errorf("%w: preferred date is required", ErrInvalidInput)
	}
	if req.SlotID != nil && *req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}
	if !req.WantsVirtualConsult && (req.ConsultDate != nil || req.ConsultTime != nil) {
		return fmt.Errorf("%w: consult date and time require wantsVirtualConsult", ErrInvalidInput)
	}
	return nil
}

// validateDate проверяет, что дата не в прошлом (в часовом поясе провайдера)
func validateDate(date, now time.Time, loc *time.Location) error {
	today := domain.StartOfDay(now.In(loc))
	y, m, d := date.Date()
	if time.Date(y, m, d, 0, 0, 0, 0, loc).Before(today) {
		return fmt.Errorf("%w: %s is in the past", ErrInvalidDate, date.Format(domain.DateFormat))
	}
	return nil
}
