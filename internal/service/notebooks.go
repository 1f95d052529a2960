package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/notely/notely/internal/models"
	"github.com/notely/notely/internal/noteerr"
)

// NotebookRepository defines the persistence operations required by
// the NotebookService.
type NotebookRepository interface {
	// Create stores a new notebook record.
	Create(ctx context.Context, nb *models.Notebook) error
	// GetByID fetches a notebook by id.
	GetByID(ctx context.Context, id string) (*models.Notebook, error)
	// ListByOwner returns all notebooks owned by the user.
	ListByOwner(ctx context.Context, ownerID string) ([]models.Notebook, error)
	// Delete removes the notebook; filed notes cascade with it.
	Delete(ctx context.Context, id string) error
}

// NotebookService manages notebook grouping. Notebooks are exclusively
// owned and never shared; they are presentation metadata, invisible to
// the note access-control model.
type NotebookService struct {
	notebooks NotebookRepository
}

// NewNotebookService constructs a NotebookService.
func NewNotebookService(notebooks NotebookRepository) *NotebookService {
	return &NotebookService{notebooks: notebooks}
}

// Create makes a new notebook for the owner. Name is required.
func (s *NotebookService) Create(ctx context.Context, ownerID, name, color string) (*models.Notebook, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: notebook name is required", noteerr.ErrInvalidArgument)
	}
	if color == "" {
		color = "#FFFFFF"
	}
	nb := &models.Notebook{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Color:     color,
		CreatedAt: time.Now(),
	}
	if err := s.notebooks.Create(ctx, nb); err != nil {
		return nil, err
	}
	return nb, nil
}

// List returns the user's notebooks.
func (s *NotebookService) List(ctx context.Context, ownerID string) ([]models.Notebook, error) {
	return s.notebooks.ListByOwner(ctx, ownerID)
}

// Delete removes the notebook and, by cascade, every note filed into
// it. Another user's notebook reads as absent.
func (s *NotebookService) Delete(ctx context.Context, notebookID, userID string) error {
	if _, err := uuid.Parse(notebookID); err != nil {
		return fmt.Errorf("%w: malformed id", noteerr.ErrInvalidArgument)
	}
	nb, err := s.notebooks.GetByID(ctx, notebookID)
	if err != nil {
		return err
	}
	if nb.OwnerID != userID {
		return noteerr.ErrNotFound
	}
	return s.notebooks.Delete(ctx, notebookID)
}
