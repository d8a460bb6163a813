package create_slot

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
	msgInvalidProviderID = "некорректный ID провайдера"
	msgInvalidRequest    = "некорректное тело запроса"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgProviderNotFound  = "провайдер не найден"
	msgResourceNotFound  = "ресурс не найден"
	msgOverlap           = "слот пересекается с существующим слотом"
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

// Handle POST /api/v1/providers/{providerId}/slots
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := strconv.ParseInt(mux.Vars(r)["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /providers/{id}/slots - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /providers/{id}/slots - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateSlotRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /providers/{id}/slots - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}
	req.ProviderID = providerID
	req.UserID = userID

	slot, err := h.service.CreateSlot(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("POST /providers/{id}/slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, slots.ErrProviderNotFound):
			h.logger.Warn("POST /providers/{id}/slots - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, slots.ErrResourceNotFound):
			h.logger.Warn("POST /providers/{id}/slots - Resource not found: provider_id=%d, resource_id=%v", providerID, req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, slots.ErrOverlap):
			h.logger.Warn("POST /providers/{id}/slots - Overlap: provider_id=%d", providerID)
			handlers.RespondConflict(w, msgOverlap)

		default:
			h.logger.Error("POST /providers/{id}/slots - Failed to create slot: provider_id=%d, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /providers/{id}/slots - Slot created: slot_id=%d, provider_id=%d, user_id=%d", slot.ID, providerID, userID)
	handlers.RespondJSON(w, http.StatusCreated, slot)
}
