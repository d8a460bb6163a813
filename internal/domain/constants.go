package domain

// Default configuration values
const (
	DefaultOfferIncrementMinutes = 60
	DefaultAdvanceBookingDays    = 0 // 0 = unlimited
	DefaultFallbackDays          = 14
	DefaultConciergeBandPercent  = 10.0
	FollowUpDelayDays            = 14
	DefaultResourceName          = "Lead practitioner"
)

// DefaultFallbackTimes ориентировочные времена для провайдеров без реального расписания
var DefaultFallbackTimes = []string{
	"9:00 AM",
	"10:00 AM",
	"11:00 AM",
	"1:00 PM",
	"2:00 PM",
	"3:00 PM",
	"4:00 PM",
}

// Business validation constants
const (
	MinOfferIncrementMinutes = 15
	MaxOfferIncrementMinutes = 240
	MinAdvanceBookingDays    = 0
	MaxAdvanceBookingDays    = 365
	MaxSlotDurationHours     = 24
	MaxBlockNoteLength       = 500
	MaxListRangeDays         = 62
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveSlotKinds типы слотов, которые не могут пересекаться на одном ресурсе
var ActiveSlotKinds = []SlotKind{
	SlotAvailable,
	SlotBooked,
}
