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
)

// NotebookService defines the interface for notebook operations
// required by the NotebookHandler.
type NotebookService interface {
	// Create makes a new notebook for the owner.
	Create(ctx context.Context, ownerID, name, color string) (*models.Notebook, error)
	// List returns the user's notebooks.
	List(ctx context.Context, ownerID string) ([]models.Notebook, error)
	// Delete removes a notebook and cascades its notes.
	Delete(ctx context.Context, notebookID, userID string) error
}

// NotebookHandler handles HTTP requests for notebooks.
type NotebookHandler struct {
	// NotebookService performs the underlying notebook operations.
	NotebookService NotebookService
	// Logger records internal failures.
	Logger *zap.Logger
}

// CreateNotebookRequest represents the JSON payload for notebook
// creation.
type CreateNotebookRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Create handles POST /api/notebooks.
func (h *NotebookHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req CreateNotebookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.Logger, fmt.Errorf("%w: invalid request body", noteerr.ErrInvalidArgument))
		return
	}

	nb, err := h.NotebookService.Create(r.Context(), userID, req.Name, req.Color)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, nb)
}

// List handles GET /api/notebooks.
func (h *NotebookHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	notebooks, err := h.NotebookService.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	if notebooks == nil {
		notebooks = []models.Notebook{}
	}
	writeJSON(w, http.StatusOK, notebooks)
}

// Delete handles DELETE /api/notebooks/{id}. Deleting a notebook also
// deletes every note filed into it.
func (h *NotebookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	if err := h.NotebookService.Delete(r.Context(), chi.URLParam(r, "id"), userID); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "notebook deleted"})
}
