package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"notemap-backend/application/services"
	"notemap-backend/pkg/auth"
	"notemap-backend/pkg/common"
	"notemap-backend/pkg/utils"
)

// ConnectionHandler serves the connection surface
type ConnectionHandler struct {
	connections *services.ConnectionService
	logger      *zap.Logger
}

// NewConnectionHandler creates a connection handler
func NewConnectionHandler(connections *services.ConnectionService, logger *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{connections: connections, logger: logger}
}

type createConnectionRequest struct {
	From string `json:"from" validate:"required,uuid4"`
	To   string `json:"to" validate:"required,uuid4"`
}

// List handles GET /api/v1/connections
func (h *ConnectionHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	conns, err := h.connections.List(r.Context(), user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	out := make([]connectionResponse, len(conns))
	for i, conn := range conns {
		out[i] = toConnectionResponse(conn)
	}
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"connections": out})
}

// Create handles POST /api/v1/connections
func (h *ConnectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req createConnectionRequest
	if err := common.ParseJSONBody(w, r, &req, 4<<10); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	conn, err := h.connections.Create(r.Context(), user.UserID, req.From, req.To)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, toConnectionResponse(conn))
}

// Delete handles DELETE /api/v1/connections/{id}
func (h *ConnectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid connection id")
		return
	}

	if err := h.connections.Delete(r.Context(), user.UserID, id); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
