package reserve_booking

import (
	"time"

	"github.com/m04kA/SMC-ConciergeService/pkg/types"
)

// State состояние попытки бронирования
type State string

const (
	StateSelecting State = "selecting"
	StateReserving State = "reserving"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Request модель запроса на бронирование
type Request struct {
	UserID        int64
	ProviderID    int64
	ProcedureSlug string
	ProcedureName string            // Пусто = название из прайс-листа
	PreferredDate time.Time         // Дата без времени
	PreferredTime *types.TimeString // Время в часовом поясе провайдера (опционально)
	SlotID        *int64            // Конкретный слот из расписания (опционально)

	InvestmentLevel     string
	WantsVirtualConsult bool
	ConsultDate         *time.Time
	ConsultTime         *types.TimeString
}

// Response модель ответа на бронирование
type Response struct {
	State        State
	BookingID    int64
	UserID       int64
	ProviderID   int64
	Status       string
	SlotID       *int64
	BookedStart  *time.Time // Забронированный отрезок слота
	BookedEnd    *time.Time
	MarketPrice  *float64
	OfferedPrice *float64
	TasksCreated int // Меньше двух - задачи будут досозданы фоновой задачей
	CreatedAt    time.Time
}
