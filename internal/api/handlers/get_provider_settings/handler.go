package get_provider_settings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConciergeService/internal/api/handlers"
	"github.com/m04kA/SMC-ConciergeService/internal/service/settings"
	"github.com/m04kA/SMC-ConciergeService/internal/service/settings/models"
)

const (
	msgInvalidProviderID = "некорректный ID провайдера"
	msgInvalidResourceID = "некорректный ID ресурса"
	msgProviderNotFound  = "провайдер не найден"
	msgResourceNotFound  = "ресурс не найден"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/settings?resourceId=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := strconv.ParseInt(mux.Vars(r)["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/settings - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	req := &models.GetSettingsRequest{ProviderID: providerID}
	if raw := r.URL.Query().Get("resourceId"); raw != "" {
		resourceID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.logger.Warn("GET /providers/{id}/settings - Invalid resource ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidResourceID)
			return
		}
		req.ResourceID = &resourceID
	}

	result, err := h.service.Get(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, settings.ErrProviderNotFound):
			h.logger.Warn("GET /providers/{id}/settings - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, settings.ErrResourceNotFound):
			h.logger.Warn("GET /providers/{id}/settings - Resource not found: provider_id=%d, resource_id=%v", providerID, req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		default:
			h.logger.Error("GET /providers/{id}/settings - Failed to get settings: provider_id=%d, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
