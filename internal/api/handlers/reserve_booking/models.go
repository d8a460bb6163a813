package reserve_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	reserveBooking "github.com/m04kA/SMC-ConciergeService/internal/usecase/reserve_booking"
	"github.com/m04kA/SMC-ConciergeService/pkg/types"
)

var (
	errInvalidDate = errors.New("invalid date")
	errInvalidTime = errors.New("invalid time")
)

// ReserveRequest HTTP request model
type ReserveRequest struct {
	ProviderID          int64   `json:"providerId"`
	Procedure           string  `json:"procedure"`               // slug процедуры
	ProcedureName       string  `json:"procedureName,omitempty"` // пусто = из прайс-листа
	PreferredDate       string  `json:"preferredDate"`           // "2025-06-02"
	PreferredTime       *string `json:"preferredTime,omitempty"` // "14:00" или "2:00 PM"
	SlotID              *int64  `json:"slotId,omitempty"`
	InvestmentLevel     string  `json:"investmentLevel"`
	WantsVirtualConsult bool    `json:"wantsVirtualConsult"`
	ConsultDate         *string `json:"consultDate,omitempty"`
	ConsultTime         *string `json:"consultTime,omitempty"`
}

// ReserveResponse HTTP response model
type ReserveResponse struct {
	State        string   `json:"state"`
	BookingID    int64    `json:"bookingId"`
	UserID       int64    `json:"userId"`
	ProviderID   int64    `json:"providerId"`
	Status       string   `json:"status"`
	SlotID       *int64   `json:"slotId,omitempty"`
	BookedStart  *string  `json:"bookedStart,omitempty"`
	BookedEnd    *string  `json:"bookedEnd,omitempty"`
	MarketPrice  *float64 `json:"marketPrice"`
	OfferedPrice *float64 `json:"offeredPrice"`
	TasksCreated int      `json:"tasksCreated"`
	CreatedAt    string   `json:"createdAt"`
	BookingsURL  string   `json:"bookingsUrl"` // куда перенаправить пользователя
}

// ConflictResponse ответ проигравшему гонку за слот: клиент возвращается к выбору времени
type ConflictResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	State   string `json:"state"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ReserveRequest) ToUseCaseRequest(userID int64) (*reserveBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.PreferredDate)
	if err != nil {
		return nil, fmt.Errorf("%w: preferredDate: %v", errInvalidDate, err)
	}

	req := &reserveBooking.Request{
		UserID:              userID,
		ProviderID:          r.ProviderID,
		ProcedureSlug:       r.Procedure,
		ProcedureName:       r.ProcedureName,
		PreferredDate:       date,
		SlotID:              r.SlotID,
		InvestmentLevel:     r.InvestmentLevel,
		WantsVirtualConsult: r.WantsVirtualConsult,
	}

	if r.PreferredTime != nil {
		t, err := types.ParseAny(*r.PreferredTime)
		if err != nil {
			return nil, fmt.Errorf("%w: preferredTime: %v", errInvalidTime, err)
		}
		req.PreferredTime = &t
	}
	if r.ConsultDate != nil {
		d, err := time.Parse(domain.DateFormat, *r.ConsultDate)
		if err != nil {
			return nil, fmt.Errorf("%w: consultDate: %v", errInvalidDate, err)
		}
		req.ConsultDate = &d
	}
	if r.ConsultTime != nil {
		t, err := types.ParseAny(*r.ConsultTime)
		if err != nil {
			return nil, fmt.Errorf("%w: consultTime: %v", errInvalidTime, err)
		}
		req.ConsultTime = &t
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reserveBooking.Response) *ReserveResponse {
	out := &ReserveResponse{
		State:        string(resp.State),
		BookingID:    resp.BookingID,
		UserID:       resp.UserID,
		ProviderID:   resp.ProviderID,
		Status:       resp.Status,
		SlotID:       resp.SlotID,
		MarketPrice:  resp.MarketPrice,
		OfferedPrice: resp.OfferedPrice,
		TasksCreated: resp.TasksCreated,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
		BookingsURL:  fmt.Sprintf("/api/v1/users/%d/bookings", resp.UserID),
	}
	if resp.BookedStart != nil {
		start := resp.BookedStart.UTC().Format(time.RFC3339)
		out.BookedStart = &start
	}
	if resp.BookedEnd != nil {
		end := resp.BookedEnd.UTC().Format(time.RFC3339)
		out.BookedEnd = &end
	}
	return out
}
