package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/notely/notely/internal/middleware"
	"github.com/notely/notely/internal/models"
	"github.com/notely/notely/internal/noteerr"
	"github.com/notely/notely/internal/service"
)

// NoteService defines the interface for note record operations
// required by the NoteHandler.
type NoteService interface {
	// Create makes a new note owned by ownerID.
	Create(ctx context.Context, ownerID string, p service.CreateNoteParams) (*models.Note, error)
	// Fetch loads one note visible to the user.
	Fetch(ctx context.Context, noteID, userID string) (*models.Note, error)
	// List returns the notes visible to the user.
	List(ctx context.Context, userID string, f models.NoteFilter) ([]models.Note, error)
	// Update applies a patch to title/content/metadata.
	Update(ctx context.Context, noteID, userID string, p models.NotePatch) (*models.Note, error)
	// Delete destroys the note.
	Delete(ctx context.Context, noteID, userID string) error
	// AddCollaborator shares the note with another user.
	AddCollaborator(ctx context.Context, noteID, userID, targetUsername string, role models.Role) (*models.Note, error)
	// RemoveCollaborator revokes a user's access.
	RemoveCollaborator(ctx context.Context, noteID, userID, targetUsername string) (*models.Note, error)
}

// NoteHandler handles HTTP requests for notes and their collaborator
// lists.
type NoteHandler struct {
	// NoteService performs the underlying note operations.
	NoteService NoteService
	// Logger records internal failures.
	Logger *zap.Logger
}

// CreateNoteRequest represents the JSON payload for note creation.
type CreateNoteRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	NotebookID string `json:"notebookId"`
	PageType   string `json:"pageType"`
	PageColor  string `json:"pageColor"`
	Margins    string `json:"margins"`
	IsPinned   bool   `json:"isPinned"`
	IsArchived bool   `json:"isArchived"`
}

// CollaboratorRequest represents the JSON payload for collaborator
// add/remove operations.
type CollaboratorRequest struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Create handles POST /api/notes.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, fmt.Errorf("%w: invalid request body", noteerr.ErrInvalidArgument))
		return
	}

	n, err := h.NoteService.Create(r.Context(), userID, service.CreateNoteParams{
		Title:      req.Title,
		Content:    req.Content,
		NotebookID: req.NotebookID,
		PageType:   req.PageType,
		PageColor:  req.PageColor,
		Margins:    req.Margins,
		IsPinned:   req.IsPinned,
		IsArchived: req.IsArchived,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// List handles GET /api/notes with optional notebookId, isPinned, and
// isArchived query filters.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	f := models.NoteFilter{NotebookID: r.URL.Query().Get("notebookId")}
	if v := r.URL.Query().Get("isPinned"); v != "" {
		pinned := v == "true"
		f.IsPinned = &pinned
	}
	if v := r.URL.Query().Get("isArchived"); v != "" {
		archived := v == "true"
		f.IsArchived = &archived
	}

	notes, err := h.NoteService.List(r.Context(), userID, f)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}
	writeJSON(w, http.StatusOK, notes)
}

// Get handles GET /api/notes/{id}. An invisible note and a nonexistent
// one produce identical responses.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	n, err := h.NoteService.Fetch(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Update handles PATCH /api/notes/{id}. Only the provided fields are
// applied; the canonical post-update record is returned.
func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var patch models.NotePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, h.Logger, fmt.Errorf("%w: invalid request body", noteerr.ErrInvalidArgument))
		return
	}

	n, err := h.NoteService.Update(r.Context(), chi.URLParam(r, "id"), userID, patch)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// Delete handles DELETE /api/notes/{id}. Owner only.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	if err := h.NoteService.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "note deleted"})
}

// AddCollaborator handles POST /api/notes/{id}/collaborators.
func (h *NoteHandler) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req CollaboratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, fmt.Errorf("%w: invalid request body", noteerr.ErrInvalidArgument))
		return
	}

	n, err := h.NoteService.AddCollaborator(r.Context(), chi.URLParam(r, "id"), userID, req.Username, models.Role(req.Role))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// RemoveCollaborator handles DELETE /api/notes/{id}/collaborators.
func (h *NoteHandler) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req CollaboratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, fmt.Errorf("%w: invalid request body", noteerr.ErrInvalidArgument))
		return
	}

	n, err := h.NoteService.RemoveCollaborator(r.Context(), chi.URLParam(r, "id"), userID, req.Username)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
