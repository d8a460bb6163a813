package get_bookable_windows

import (
	"time"

	"github.com/m04kA/SMC-ConciergeService/pkg/types"
)

// Request модель запроса окон для бронирования
type Request struct {
	UserID     int64     // ID пользователя (для логирования, не влияет на результат)
	ProviderID int64     // ID провайдера
	From       time.Time // Начиная с какого момента (нулевое значение = сейчас)
}

// Response модель ответа с окнами по датам
type Response struct {
	ProviderID int64
	Timezone   string
	Indicative bool        // true = ориентировочные времена, реального расписания нет
	Days       []DayWindow // Упорядочены по дате
}

// DayWindow кандидаты времени на одну дату (в часовом поясе провайдера)
type DayWindow struct {
	Date  time.Time   // Полночь даты в часовом поясе провайдера
	Times []Candidate // Упорядочены по времени суток
}

// Candidate одно предлагаемое время
type Candidate struct {
	Time       types.TimeString
	StartAt    *time.Time // Момент начала; nil для ориентировочных времён
	SlotID     *int64     // Слот, из которого получено время; nil для ориентировочных
	ResourceID *int64
	StaffName  *string // Имя специалиста, если слот привязан к ресурсу
}

// FallbackConfig ориентировочное расписание для провайдеров без слотов
type FallbackConfig struct {
	Days  int
	Times []types.TimeString
}
