package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"notemap-backend/application/services"
	"notemap-backend/domain/core/entities"
	"notemap-backend/pkg/auth"
	"notemap-backend/pkg/common"
	"notemap-backend/pkg/utils"
)

// CredentialHandler serves provider connect, disconnect, and status
type CredentialHandler struct {
	creds  *services.CredentialService
	logger *zap.Logger
}

// NewCredentialHandler creates a credential handler
func NewCredentialHandler(creds *services.CredentialService, logger *zap.Logger) *CredentialHandler {
	return &CredentialHandler{creds: creds, logger: logger}
}

type driveCallbackRequest struct {
	Code string `json:"code" validate:"required"`
}

type githubTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// DriveAuthURL handles GET /api/v1/auth/drive/url
func (h *CredentialHandler) DriveAuthURL(w http.ResponseWriter, r *http.Request) {
	if _, err := auth.GetUserFromContext(r.Context()); err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	// State is single-use; the client echoes it back through the callback.
	state := uuid.New().String()
	common.RespondJSON(w, http.StatusOK, map[string]string{
		"url":   h.creds.DriveAuthURL(state),
		"state": state,
	})
}

// DriveCallback handles POST /api/v1/auth/drive/callback
func (h *CredentialHandler) DriveCallback(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req driveCallbackRequest
	if err := common.ParseJSONBody(w, r, &req, 8<<10); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.creds.ConnectDrive(r.Context(), user.UserID, req.Code); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "connected"})
}

// GitHubToken handles POST /api/v1/auth/github/token
func (h *CredentialHandler) GitHubToken(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req githubTokenRequest
	if err := common.ParseJSONBody(w, r, &req, 8<<10); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.creds.ConnectGitHub(r.Context(), user.UserID, req.Token); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "connected"})
}

// Disconnect handles DELETE /api/v1/auth/{provider}
func (h *CredentialHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
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

	if err := h.creds.Disconnect(r.Context(), user.UserID, provider); err != nil {
		common.RespondAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Status handles GET /api/v1/auth/status
func (h *CredentialHandler) Status(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	status, err := h.creds.Status(r.Context(), user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, status)
}
