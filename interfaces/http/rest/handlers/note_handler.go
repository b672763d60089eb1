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

const maxNoteBodyBytes = 256 << 10

// NoteHandler serves the note CRUD surface
type NoteHandler struct {
	notes  *services.NoteService
	logger *zap.Logger
}

// NewNoteHandler creates a note handler
func NewNoteHandler(notes *services.NoteService, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{notes: notes, logger: logger}
}

type createNoteRequest struct {
	Title   string   `json:"title" validate:"required,max=500"`
	Content string   `json:"content"`
	X       *float64 `json:"x" validate:"required"`
	Y       *float64 `json:"y" validate:"required"`
	Color   string   `json:"color"`
	Tags    []string `json:"tags"`
}

type updateNoteRequest struct {
	Title   *string   `json:"title" validate:"omitempty,min=1,max=500"`
	Content *string   `json:"content"`
	X       *float64  `json:"x"`
	Y       *float64  `json:"y"`
	Color   *string   `json:"color"`
	Tags    *[]string `json:"tags"`
}

// mutationResponse carries the saved note plus the auto-sync outcome. The
// mutation itself succeeded even when syncError is set.
type mutationResponse struct {
	noteResponse
	SyncError string `json:"syncError,omitempty"`
}

func toMutationResponse(result *services.MutationResult) mutationResponse {
	resp := mutationResponse{noteResponse: toNoteResponse(result.Note)}
	if result.SyncError != nil {
		resp.SyncError = result.SyncError.Error()
	}
	return resp
}

// List handles GET /api/v1/notes
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	notes, err := h.notes.List(r.Context(), user.UserID)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{"notes": toNoteResponses(notes)})
}

// Get handles GET /api/v1/notes/{id}
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid note id")
		return
	}

	note, err := h.notes.Get(r.Context(), user.UserID, id)
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, toNoteResponse(note))
}

// Create handles POST /api/v1/notes
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	var req createNoteRequest
	if err := common.ParseJSONBody(w, r, &req, maxNoteBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.notes.Create(r.Context(), user.UserID, services.CreateNoteInput{
		Title:   req.Title,
		Content: req.Content,
		X:       req.X,
		Y:       req.Y,
		Color:   req.Color,
		Tags:    req.Tags,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, toMutationResponse(result))
}

// Update handles PUT /api/v1/notes/{id}
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid note id")
		return
	}

	var req updateNoteRequest
	if err := common.ParseJSONBody(w, r, &req, maxNoteBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.notes.Update(r.Context(), user.UserID, id, entities.NotePatch{
		Title:   req.Title,
		Content: req.Content,
		X:       req.X,
		Y:       req.Y,
		Color:   req.Color,
		Tags:    req.Tags,
	})
	if err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, toMutationResponse(result))
}

// Delete handles DELETE /api/v1/notes/{id}
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		common.RespondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid note id")
		return
	}

	if err := h.notes.Delete(r.Context(), user.UserID, id); err != nil {
		common.RespondAppError(w, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
