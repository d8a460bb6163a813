package models

import (
	"errors"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// Response модели

// TaskResponse задача, созданная для бронирования
type TaskResponse struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueAt       time.Time `json:"dueAt"`
	Status      string    `json:"status"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"userId"`
	ProviderID    int64   `json:"providerId"`
	ProcedureSlug string  `json:"procedureSlug"`
	ProcedureName string  `json:"procedureName"`
	PreferredDate string  `json:"preferredDate"`           // "2025-06-01"
	PreferredTime *string `json:"preferredTime,omitempty"` // "14:00"
	SlotID        *int64  `json:"slotId,omitempty"`

	WantsVirtualConsult bool    `json:"wantsVirtualConsult"`
	ConsultDate         *string `json:"consultDate,omitempty"`
	ConsultTime         *string `json:"consultTime,omitempty"`

	InvestmentLevel string   `json:"investmentLevel,omitempty"`
	MarketPrice     *float64 `json:"marketPrice,omitempty"`
	OfferedPrice    *float64 `json:"offeredPrice,omitempty"`
	Status          string   `json:"status"`

	Tasks []TaskResponse `json:"tasks,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                  b.ID,
		UserID:              b.UserID,
		ProviderID:          b.ProviderID,
		ProcedureSlug:       b.ProcedureSlug,
		ProcedureName:       b.ProcedureName,
		PreferredDate:       b.PreferredDate.Format(domain.DateFormat),
		SlotID:              b.SlotID,
		WantsVirtualConsult: b.WantsVirtualConsult,
		InvestmentLevel:     b.InvestmentLevel,
		MarketPrice:         b.MarketPrice,
		OfferedPrice:        b.OfferedPrice,
		Status:              string(b.Status),
		CreatedAt:           b.CreatedAt,
		UpdatedAt:           b.UpdatedAt,
	}

	if b.PreferredTime != nil {
		t := b.PreferredTime.String()
		resp.PreferredTime = &t
	}
	if b.ConsultDate != nil {
		d := b.ConsultDate.Format(domain.DateFormat)
		resp.ConsultDate = &d
	}
	if b.ConsultTime != nil {
		t := b.ConsultTime.String()
		resp.ConsultTime = &t
	}

	return resp
}

// FromDomainTasks конвертирует задачи в DTO
func FromDomainTasks(tasks []*domain.FollowUpTask) []TaskResponse {
	result := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, TaskResponse{
			ID:          t.ID,
			Type:        string(t.Type),
			Title:       t.Title,
			Description: t.Description,
			DueAt:       t.DueAt,
			Status:      string(t.Status),
		})
	}
	return result
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		result.Bookings = append(result.Bookings, *FromDomainBooking(b))
	}
	return result
}

// ToDomainBookingStatus конвертирует строку в статус бронирования
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(strings.ToLower(strings.TrimSpace(status)))
	if !domain.IsValidBookingStatus(s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}
