package update_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConciergeService/internal/api/handlers"
	"github.com/m04kA/SMC-ConciergeService/internal/api/middleware"
	"github.com/m04kA/SMC-ConciergeService/internal/service/slots"
	"github.com/m04kA/SMC-ConciergeService/internal/service/slots/models"
)

const (
	msgInvalidSlotID    = "некорректный ID слота"
	msgInvalidRequest   = "некорректное тело запроса"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgSlotNotFound     = "слот не найден"
	msgResourceNotFound = "ресурс не найден"
	msgOverlap          = "слот пересекается с существующим слотом"
	msgBookedSlot       = "забронированный слот нельзя изменить"
)

type Handler struct {
	service SlotService
	logger  Logger
}

func NewHandler(service SlotService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /slots/{id} - Invalid slot ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /slots/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /slots/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}
	req.SlotID = slotID
	req.UserID = userID

	slot, err := h.service.UpdateSlot(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("PATCH /slots/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, slots.ErrSlotNotFound):
			h.logger.Warn("PATCH /slots/{id} - Slot not found: slot_id=%d", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slots.ErrResourceNotFound):
			h.logger.Warn("PATCH /slots/{id} - Resource not found: slot_id=%d, resource_id=%v", slotID, req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, slots.ErrImmutableBookedSlot):
			h.logger.Warn("PATCH /slots/{id} - Booked slot is immutable: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgBookedSlot)

		case errors.Is(err, slots.ErrOverlap):
			h.logger.Warn("PATCH /slots/{id} - Overlap: slot_id=%d", slotID)
			handlers.RespondConflict(w, msgOverlap)

		default:
			h.logger.Error("PATCH /slots/{id} - Failed to update slot: slot_id=%d, error=%v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /slots/{id} - Slot updated: slot_id=%d, user_id=%d", slotID, userID)
	handlers.RespondJSON(w, http.StatusOK, slot)
}
