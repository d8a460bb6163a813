package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ConciergeService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ConciergeService/internal/service/bookings/models"
)

// Service сервис для чтения бронирований
type Service struct {
	bookingRepo BookingRepository
	taskRepo    TaskRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, taskRepo TaskRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		taskRepo:    taskRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID вместе с задачами.
// Пользователь видит только свои бронирования.
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.UserID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	tasks, err := s.taskRepo.GetByBookingID(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to load tasks for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - task repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainBooking(booking)
	resp.Tasks = models.FromDomainTasks(tasks)

	s.logger.Info("GetByID: successfully fetched booking id=%d with %d tasks", id, len(tasks))
	return resp, nil
}

// GetUserBookings получает историю бронирований пользователя.
// Опционально фильтрует по статусу.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}
