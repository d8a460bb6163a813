package domain

import (
	"fmt"
	"time"
)

// TaskType тип задачи после бронирования
type TaskType string

const (
	TaskConfirmationCall TaskType = "confirmation_call"
	TaskFollowUpCall     TaskType = "follow_up_call"
)

// TaskStatus статус задачи
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
)

// FollowUpTask задача, создаваемая для каждого бронирования
type FollowUpTask struct {
	ID          int64
	UserID      int64
	BookingID   int64
	Type        TaskType
	Title       string
	Description string
	DueAt       time.Time
	Status      TaskStatus
	CreatedAt   time.Time
}

// FollowUpTasksFor строит две обязательные задачи для бронирования:
// звонок-подтверждение на следующий календарный день после now и
// контрольный звонок через FollowUpDelayDays после желаемой даты процедуры.
func FollowUpTasksFor(booking *Booking, now time.Time) []*FollowUpTask {
	return []*FollowUpTask{
		ConfirmationTaskFor(booking, now),
		FollowUpTaskFor(booking),
	}
}

// ConfirmationTaskFor строит задачу звонка-подтверждения
func ConfirmationTaskFor(booking *Booking, now time.Time) *FollowUpTask {
	return &FollowUpTask{
		UserID:      booking.UserID,
		BookingID:   booking.ID,
		Type:        TaskConfirmationCall,
		Title:       fmt.Sprintf("Confirm %s appointment", booking.ProcedureName),
		Description: fmt.Sprintf("Call the client to confirm the %s booking for %s.", booking.ProcedureName, booking.PreferredDate.Format(DateFormat)),
		DueAt:       StartOfDay(now).AddDate(0, 0, 1),
		Status:      TaskPending,
	}
}

// FollowUpTaskFor строит задачу контрольного звонка после процедуры
func FollowUpTaskFor(booking *Booking) *FollowUpTask {
	return &FollowUpTask{
		UserID:      booking.UserID,
		BookingID:   booking.ID,
		Type:        TaskFollowUpCall,
		Title:       fmt.Sprintf("Follow up after %s", booking.ProcedureName),
		Description: fmt.Sprintf("Check in with the client about their %s results.", booking.ProcedureName),
		DueAt:       StartOfDay(booking.PreferredDate).AddDate(0, 0, FollowUpDelayDays),
		Status:      TaskPending,
	}
}

// StartOfDay обнуляет время, сохраняя локацию
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
