package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	taskRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/task"
	"github.com/m04kA/SMC-ConciergeService/pkg/metrics"
)

// defaultReconcileBatch сколько бронирований обрабатывается за один проход
const defaultReconcileBatch = 200

// ReconcileResult итог прохода восстановления задач
type ReconcileResult struct {
	Bookings int
	Created  int
	Failed   int
}

// Service создаёт задачи после бронирования и восстанавливает недостающие
type Service struct {
	taskRepo     TaskRepository
	bookingRepo  BookingRepository
	metrics      *metrics.Metrics
	batchSize    uint64
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса задач
func NewService(taskRepo TaskRepository, bookingRepo BookingRepository, m *metrics.Metrics, logger Logger) *Service {
	return &Service{
		taskRepo:     taskRepo,
		bookingRepo:  bookingRepo,
		metrics:      m,
		batchSize:    defaultReconcileBatch,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// CreateForBooking создаёт обе задачи бронирования.
// Уже существующая задача считается созданной. Возвращает число задач, которые есть у
// бронирования после вызова; при частичном успехе ошибка оборачивает ErrPartialTaskCreation.
func (s *Service) CreateForBooking(ctx context.Context, booking *domain.Booking, createdAt time.Time) (int, error) {
	var (
		created int
		errs    []error
	)

	for _, task := range domain.FollowUpTasksFor(booking, createdAt) {
		_, err := s.taskRepo.Create(ctx, task)
		if err == nil || errors.Is(err, taskRepo.ErrTaskExists) {
			created++
			continue
		}

		s.metrics.IncTaskCreationFailure(string(task.Type))
		s.logger.Error("CreateForBooking: failed to create %s task for booking=%d: %v", task.Type, booking.ID, err)
		errs = append(errs, fmt.Errorf("%s: %w", task.Type, err))
	}

	if len(errs) > 0 {
		return created, fmt.Errorf("%w: booking=%d: %w", ErrPartialTaskCreation, booking.ID, errors.Join(errs...))
	}
	return created, nil
}

// ReconcileMissing досоздаёт задачи бронированиям, у которых их меньше двух.
// Срок звонка-подтверждения считается от момента создания бронирования.
func (s *Service) ReconcileMissing(ctx context.Context) (*ReconcileResult, error) {
	ids, err := s.taskRepo.ListBookingIDsMissingTasks(ctx, s.batchSize)
	if err != nil {
		s.logger.Error("ReconcileMissing: failed to list bookings: %v", err)
		return nil, fmt.Errorf("%w: ReconcileMissing - repository error: %v", ErrInternal, err)
	}

	result := &ReconcileResult{Bookings: len(ids)}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		booking, err := s.bookingRepo.GetByID(ctx, id)
		if err != nil {
			s.logger.Warn("ReconcileMissing: failed to load booking=%d: %v", id, err)
			result.Failed++
			continue
		}

		createdAt := booking.CreatedAt
		if createdAt.IsZero() {
			createdAt = s.timeProvider.Now()
		}

		if _, err := s.CreateForBooking(ctx, booking, createdAt); err != nil {
			result.Failed++
			continue
		}
		result.Created++
	}

	s.logger.Info("ReconcileMissing: checked %d bookings, repaired %d, failed %d",
		result.Bookings, result.Created, result.Failed)
	return result, nil
}
