package get_booking

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConciergeService/internal/api/handlers"
	"github.com/m04kA/SMC-ConciergeService/internal/api/middleware"
	"github.com/m04kA/SMC-ConciergeService/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgBookingNotFound  = "заявка на процедуру не найдена"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotOwner         = "заявка принадлежит другому клиенту"
)

// Handler отдаёт клиенту его заявку на процедуру
type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}
// Ответ: заявка со снимком цен (market/offered) и двумя задачами консьержа
// (confirmation_call и follow_up_call). Чужая заявка даёт 403.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := parseBookingID(mux.Vars(r)["bookingId"])
	if err != nil {
		h.logger.Warn("GET /bookings/{id} - %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID, userID)
	switch {
	case err == nil:
	case errors.Is(err, bookings.ErrBookingNotFound):
		h.logger.Warn("GET /bookings/{id} - Booking not found: booking_id=%d", bookingID)
		handlers.RespondNotFound(w, msgBookingNotFound)
		return
	case errors.Is(err, bookings.ErrAccessDenied):
		h.logger.Warn("GET /bookings/{id} - Booking %d is not owned by user %d", bookingID, userID)
		handlers.RespondForbidden(w, msgNotOwner)
		return
	default:
		h.logger.Error("GET /bookings/{id} - Failed to load booking %d: %v", bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /bookings/{id} - booking_id=%d, procedure=%s, status=%s, tasks=%d",
		booking.ID, booking.ProcedureSlug, booking.Status, len(booking.Tasks))
	handlers.RespondJSON(w, http.StatusOK, booking)
}

func parseBookingID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid booking ID %q: %w", raw, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("booking ID must be positive, got %d", id)
	}
	return id, nil
}
