package domain

import "time"

// SlotKind тип слота в календаре провайдера
type SlotKind string

const (
	SlotAvailable SlotKind = "available"
	SlotBlocked   SlotKind = "blocked"
	SlotBooked    SlotKind = "booked"
)

// BlockReason причина блокировки времени
type BlockReason string

const (
	BlockPersonal    BlockReason = "personal"
	BlockHoliday     BlockReason = "holiday"
	BlockTraining    BlockReason = "training"
	BlockMaintenance BlockReason = "maintenance"
	BlockOther       BlockReason = "other"
)

// StyleHint подсказка для отрисовки слота в календаре
type StyleHint string

const (
	StylePositive      StyleHint = "positive"
	StyleNeutral       StyleHint = "neutral"
	StyleInformational StyleHint = "informational"
)

// Slot временное окно в календаре провайдера.
// Принадлежит ровно одному провайдеру, опционально - конкретному ресурсу (специалисту, кабинету).
type Slot struct {
	ID          int64
	ProviderID  int64
	ResourceID  *int64
	StartAt     time.Time
	EndAt       time.Time
	Kind        SlotKind
	BlockReason *BlockReason
	BlockNote   *string
	BookingID   *int64

	// Заполняется при чтении через JOIN provider_resources
	ResourceName *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Duration возвращает длительность слота
func (s *Slot) Duration() time.Duration {
	return s.EndAt.Sub(s.StartAt)
}

// IsBooked возвращает true, если слот уже забронирован
func (s *Slot) IsBooked() bool {
	return s.Kind == SlotBooked
}

// Overlaps проверяет пересечение с интервалом [start, end).
// Граничащие интервалы (конец одного = начало другого) не пересекаются.
func (s *Slot) Overlaps(start, end time.Time) bool {
	return s.StartAt.Before(end) && s.EndAt.After(start)
}

// StyleHint возвращает подсказку отрисовки по типу слота
func (s *Slot) StyleHint() StyleHint {
	switch s.Kind {
	case SlotAvailable:
		return StylePositive
	case SlotBooked:
		return StyleInformational
	default:
		return StyleNeutral
	}
}

// IsValidKind проверяет, что тип слота известен
func IsValidKind(kind SlotKind) bool {
	switch kind {
	case SlotAvailable, SlotBlocked, SlotBooked:
		return true
	}
	return false
}

// IsValidBlockReason проверяет, что причина блокировки известна
func IsValidBlockReason(reason BlockReason) bool {
	switch reason {
	case BlockPersonal, BlockHoliday, BlockTraining, BlockMaintenance, BlockOther:
		return true
	}
	return false
}

// ConflictingKinds возвращает типы слотов, с которыми не может пересекаться новый слот kind
// на том же ресурсе. available и booked не пересекаются никогда; редактор дополнительно
// не позволяет открыть время поверх блокировки.
func ConflictingKinds(kind SlotKind) []SlotKind {
	if kind == SlotAvailable {
		return []SlotKind{SlotAvailable, SlotBooked, SlotBlocked}
	}
	return []SlotKind{SlotAvailable, SlotBooked}
}

// SlotFilter фильтр выборки слотов
type SlotFilter struct {
	ProviderID int64      // Обязательный параметр
	ResourceID *int64     // Только слоты ресурса (опционально)
	From       *time.Time // Слоты, пересекающие [From, To) (опционально)
	To         *time.Time
	StartFrom  *time.Time // Слоты, начинающиеся не раньше StartFrom (опционально)
	Kinds      []SlotKind // Фильтр по типам (опционально)
}

// SlotUpdate частичное обновление слота редактором
type SlotUpdate struct {
	ResourceID  *int64
	StartAt     *time.Time
	EndAt       *time.Time
	Kind        *SlotKind
	BlockReason *BlockReason
	BlockNote   *string
}

// IsEmpty возвращает true, если не задано ни одного поля
func (u *SlotUpdate) IsEmpty() bool {
	return u.ResourceID == nil && u.StartAt == nil && u.EndAt == nil &&
		u.Kind == nil && u.BlockReason == nil && u.BlockNote == nil
}

// ApplyTo применяет обновление к копии слота
func (u *SlotUpdate) ApplyTo(slot Slot) Slot {
	if u.ResourceID != nil {
		slot.ResourceID = u.ResourceID
	}
	if u.StartAt != nil {
		slot.StartAt = *u.StartAt
	}
	if u.EndAt != nil {
		slot.EndAt = *u.EndAt
	}
	if u.Kind != nil {
		slot.Kind = *u.Kind
	}
	if u.BlockReason != nil {
		slot.BlockReason = u.BlockReason
	}
	if u.BlockNote != nil {
		slot.BlockNote = u.BlockNote
	}
	// Снятие блокировки очищает причину и заметку
	if slot.Kind != SlotBlocked {
		slot.BlockReason = nil
		slot.BlockNote = nil
	}
	return slot
}

// ReservationSplit результат разбиения слота при бронировании части окна
type ReservationSplit struct {
	BookedStart time.Time
	BookedEnd   time.Time
	Remainders  []Slot // Остатки окна, которые остаются available
}

// SplitForReservation вырезает из слота [start, start+length) под бронирование.
// start должен лежать на сетке шага length от начала слота, а отрезок целиком помещаться в слот,
// иначе возвращает false. Короткий слот (меньше length) бронируется целиком только с его начала.
func SplitForReservation(slot Slot, start time.Time, length time.Duration) (ReservationSplit, bool) {
	if length <= 0 || start.Before(slot.StartAt) || !start.Before(slot.EndAt) {
		return ReservationSplit{}, false
	}
	if start.Sub(slot.StartAt)%length != 0 {
		return ReservationSplit{}, false
	}

	end := start.Add(length)
	if end.After(slot.EndAt) {
		if !start.Equal(slot.StartAt) {
			return ReservationSplit{}, false
		}
		end = slot.EndAt
	}

	split := ReservationSplit{BookedStart: start, BookedEnd: end}

	if start.After(slot.StartAt) {
		split.Remainders = append(split.Remainders, remainder(slot, slot.StartAt, start))
	}
	if end.Before(slot.EndAt) {
		split.Remainders = append(split.Remainders, remainder(slot, end, slot.EndAt))
	}

	return split, true
}

func remainder(slot Slot, start, end time.Time) Slot {
	return Slot{
		ProviderID: slot.ProviderID,
		ResourceID: slot.ResourceID,
		StartAt:    start,
		EndAt:      end,
		Kind:       SlotAvailable,
	}
}
