package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"notemap-backend/application/services"
	"notemap-backend/pkg/auth"
	"notemap-backend/pkg/common"
)

// Import payloads can carry a whole graph; cap well above any realistic map.
const maxImportBodyBytes = 32 << 20

// TransferHandler serves export and import
type TransferHandler struct {
	transfer *services.TransferService
	logger   *zap.Logger
}

// NewTransferHandler creates a transfer handler
func NewTransferHandler(transfer *services.TransferService, logger *zap.Logger) *TransferHandler {
	return &TransferHandler{transfer: transfer, logger: logger}
}

// importRequest is a flat export payload plus the clearExisting flag
type importRequest struct {
	services.ExportPayload
	ClearExisting bool `json:"clearExisting"`
}

// Export handles POST /api/v1/export
func (h *TransferHandler) Export(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	payload, err := h.transfer.Export(r.Context(), user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, payload)
}

// Import handles POST /api/v1/import
func (h *TransferHandler) Import(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req importRequest
	if err := common.ParseJSONBody(w, r, &req, maxImportBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	counts, err := h.transfer.Import(r.Context(), user.UserID, req.ExportPayload, req.ClearExisting)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, counts)
}
