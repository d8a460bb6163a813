package rank_providers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ConciergeService/internal/api/handlers"
	"github.com/m04kA/SMC-ConciergeService/internal/api/middleware"
	rankProviders "github.com/m04kA/SMC-ConciergeService/internal/usecase/rank_providers"
)

const (
	msgInvalidProcedure = "некорректная процедура"
)

type Handler struct {
	useCase RankProvidersUseCase
	logger  Logger
}

func NewHandler(useCase RankProvidersUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/procedures/{slug}/providers
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]
	userID, _ := middleware.GetUserID(r.Context())

	result, err := h.useCase.Execute(r.Context(), &rankProviders.Request{
		UserID:        userID,
		ProcedureSlug: slug,
	})
	if err != nil {
		if errors.Is(err, rankProviders.ErrInvalidInput) {
			h.logger.Warn("GET /procedures/{slug}/providers - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidProcedure)
			return
		}
		h.logger.Error("GET /procedures/{slug}/providers - Failed to rank providers: procedure=%s, error=%v", slug, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /procedures/{slug}/providers - Ranking computed: procedure=%s, providers=%d",
		result.ProcedureSlug, len(result.Candidates))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
