package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"notemap-backend/application/services"
	"notemap-backend/domain/core/entities"
	"notemap-backend/pkg/auth"
	"notemap-backend/pkg/common"
	"notemap-backend/pkg/utils"
)

// SyncHandler serves the batch mirror endpoints
type SyncHandler struct {
	sync   *services.SyncService
	logger *zap.Logger
}

// NewSyncHandler creates a sync handler
func NewSyncHandler(sync *services.SyncService, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{sync: sync, logger: logger}
}

type githubSyncRequest struct {
	Owner string `json:"owner" validate:"required"`
	Repo  string `json:"repo" validate:"required"`
}

type syncResponse struct {
	Provider string                 `json:"provider"`
	Results  []services.ItemResult  `json:"results"`
	Summary  map[string]interface{} `json:"summary"`
}

func summarize(results []services.ItemResult) map[string]interface{} {
	succeeded := 0
	for _, r := range results {
		if r.Status == services.ItemStatusSuccess {
			succeeded++
		}
	}
	return map[string]interface{}{
		"total":     len(results),
		"succeeded": succeeded,
		"failed":    len(results) - succeeded,
	}
}

// SyncAll handles POST /api/v1/sync/{provider}. Drive takes no body; GitHub
// takes the target owner and repo.
func (h *SyncHandler) SyncAll(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	provider := entities.Provider(chi.URLParam(r, "provider"))
	if !provider.Valid() {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "unknown provider")
		return
	}

	var target *services.GitHubTarget
	if provider == entities.ProviderGitHub {
		var req githubSyncRequest
		if err := common.ParseJSONBody(w, r, &req, 4<<10); err != nil {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		target = &services.GitHubTarget{Owner: req.Owner, Repo: req.Repo}
	}

	results, err := h.sync.SyncAll(r.Context(), user.UserID, provider, target)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, syncResponse{
		Provider: string(provider),
		Results:  results,
		Summary:  summarize(results),
	})
}
