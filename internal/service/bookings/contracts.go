package bookings

import (
	"context"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
}

// TaskRepository интерфейс репозитория задач
type TaskRepository interface {
	GetByBookingID(ctx context.Context, bookingID int64) ([]*domain.FollowUpTask, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
