package get_bookable_windows

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConciergeService/internal/api/handlers"
	"github.com/m04kA/SMC-ConciergeService/internal/api/middleware"
	"github.com/m04kA/SMC-ConciergeService/internal/domain"
	getWindows "github.com/m04kA/SMC-ConciergeService/internal/usecase/get_bookable_windows"
)

const (
	msgInvalidProviderID = "некорректный ID провайдера"
	msgInvalidFrom       = "некорректный параметр from, ожидается RFC3339 или YYYY-MM-DD"
	msgProviderNotFound  = "провайдер не найден"
)

type Handler struct {
	useCase GetBookableWindowsUseCase
	logger  Logger
}

func NewHandler(useCase GetBookableWindowsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/providers/{providerId}/bookable-windows?from=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID, err := strconv.ParseInt(mux.Vars(r)["providerId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /providers/{id}/bookable-windows - Invalid provider ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProviderID)
		return
	}

	var from time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			from, err = time.Parse(domain.DateFormat, raw)
		}
		if err != nil {
			h.logger.Warn("GET /providers/{id}/bookable-windows - Invalid from: %v", err)
			handlers.RespondBadRequest(w, msgInvalidFrom)
			return
		}
	}

	// Пользователь для этого маршрута необязателен
	userID, _ := middleware.GetUserID(r.Context())

	result, err := h.useCase.Execute(r.Context(), &getWindows.Request{
		UserID:     userID,
		ProviderID: providerID,
		From:       from,
	})
	if err != nil {
		switch {
		case errors.Is(err, getWindows.ErrProviderNotFound):
			h.logger.Warn("GET /providers/{id}/bookable-windows - Provider not found: provider_id=%d", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, getWindows.ErrInvalidInput):
			h.logger.Warn("GET /providers/{id}/bookable-windows - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidProviderID)

		default:
			h.logger.Error("GET /providers/{id}/bookable-windows - Failed to get windows: provider_id=%d, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /providers/{id}/bookable-windows - Windows retrieved: provider_id=%d, days=%d, indicative=%t",
		providerID, len(result.Days), result.Indicative)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
