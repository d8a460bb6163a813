package settings

import (
	"fmt"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
)

func validateSettings(s domain.SlotSettings) error {
	if s.OfferIncrementMinutes < domain.MinOfferIncrementMinutes || s.OfferIncrementMinutes > domain.MaxOfferIncrementMinutes {
		return fmt.Errorf("%w: offerIncrementMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinOfferIncrementMinutes, domain.MaxOfferIncrementMinutes)
	}
	if s.AdvanceBookingDays < domain.MinAdvanceBookingDays || s.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}
	return nil
}
