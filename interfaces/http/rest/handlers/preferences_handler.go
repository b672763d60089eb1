package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"notemap-backend/application/services"
	"notemap-backend/domain/core/entities"
	"notemap-backend/pkg/auth"
	"notemap-backend/pkg/common"
)

// PreferencesHandler serves the user preferences surface
type PreferencesHandler struct {
	users  *services.UserService
	logger *zap.Logger
}

// NewPreferencesHandler creates a preferences handler
func NewPreferencesHandler(users *services.UserService, logger *zap.Logger) *PreferencesHandler {
	return &PreferencesHandler{users: users, logger: logger}
}

// Get handles GET /api/v1/user/preferences
func (h *PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	prefs, err := h.users.GetPreferences(r.Context(), user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, toPreferencesBody(prefs))
}

// Update handles PUT /api/v1/user/preferences
func (h *PreferencesHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req preferencesBody
	if err := common.ParseJSONBody(w, r, &req, 4<<10); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	prefs, err := h.users.UpdatePreferences(r.Context(), user.UserID, entities.Preferences{
		AutoSync:     req.AutoSync,
		AutoCommit:   req.AutoCommit,
		DefaultColor: req.DefaultColor,
		GitHubOwner:  req.GitHubOwner,
		GitHubRepo:   req.GitHubRepo,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, toPreferencesBody(prefs))
}
