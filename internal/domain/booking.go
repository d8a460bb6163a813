package domain

import (
	"time"

	"github.com/m04kA/SMC-ConciergeService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a customer's reservation request
type Booking struct {
	ID            int64
	UserID        int64
	ProviderID    int64
	ProcedureSlug string
	ProcedureName string
	PreferredDate time.Time
	PreferredTime *types.TimeString
	SlotID        *int64 // Конкретный забронированный слот (если выбран из реального расписания)

	WantsVirtualConsult bool
	ConsultDate         *time.Time
	ConsultTime         *types.TimeString

	InvestmentLevel string
	MarketPrice     *float64 // Рыночная цена из прайс-листа
	OfferedPrice    *float64 // Цена, предложенная клиенту

	Status BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking has not been cancelled
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// HasSlot returns true if the booking reserved a concrete slot
func (b *Booking) HasSlot() bool {
	return b.SlotID != nil
}

// IsValidBookingStatus проверяет, что статус известен
func IsValidBookingStatus(status BookingStatus) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
