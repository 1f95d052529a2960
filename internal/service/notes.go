package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/notely/notely/internal/access"
	"github.com/notely/notely/internal/models"
	"github.com/notely/notely/internal/noteerr"
)

// NoteRepository defines the persistence operations required by the
// NoteService.
type NoteRepository interface {
	// Insert stores a newly created note.
	Insert(ctx context.Context, n *models.Note) error
	// GetByID fetches a note with owner and collaborators expanded.
	GetByID(ctx context.Context, id string) (*models.Note, error)
	// ListVisible returns the notes a user owns or collaborates on.
	ListVisible(ctx context.Context, userID string, f models.NoteFilter) ([]models.Note, error)
	// Update replaces the mutable fields of the note row.
	Update(ctx context.Context, n *models.Note) error
	// Delete removes the note and its collaborator entries.
	Delete(ctx context.Context, id string) error
	// AddCollaborator appends a collaborator entry.
	AddCollaborator(ctx context.Context, noteID, userID string, role models.Role, now time.Time) error
	// RemoveCollaborator deletes a collaborator entry.
	RemoveCollaborator(ctx context.Context, noteID, userID string, now time.Time) error
}

// CreateNoteParams carries the optional fields of note creation.
type CreateNoteParams struct {
	Title      string
	Content    string
	NotebookID string
	PageType   string
	PageColor  string
	Margins    string
	IsPinned   bool
	IsArchived bool
}

// NoteService is the note record manager. Every operation resolves the
// acting user's level through the access package before touching data;
// no handler performs its own ownership checks.
//
// Updates are last-write-wins at full-record granularity. The editor
// always sends title and content together, so there is no partial-field
// clobber in practice, but independent concurrent field-level edits are
// not merge-safe.
type NoteService struct {
	notes     NoteRepository
	users     UserRepository
	notebooks NotebookRepository
	now       func() time.Time
}

// NewNoteService constructs a NoteService over the given repositories.
func NewNoteService(notes NoteRepository, users UserRepository, notebooks NotebookRepository) *NoteService {
	return &NoteService{notes: notes, users: users, notebooks: notebooks, now: time.Now}
}

// checkID rejects malformed ids before they reach the database.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: malformed id", noteerr.ErrInvalidArgument)
	}
	return nil
}

// normalizeTitle trims the title and falls back to "Untitled".
func normalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Untitled"
	}
	return title
}

func validPageType(s string) bool {
	switch s {
	case models.PageTypeDefault, models.PageTypeRuled, models.PageTypeGrid, models.PageTypeDotted:
		return true
	}
	return false
}

func validMargins(s string) bool {
	switch s {
	case models.MarginsNarrow, models.MarginsNormal, models.MarginsWide:
		return true
	}
	return false
}

// Create makes a new note owned by ownerID with an empty collaborator
// list. A notebook association must point at a notebook of the same
// owner; a foreign or unknown notebook reads as absent.
func (s *NoteService) Create(ctx context.Context, ownerID string, p CreateNoteParams) (*models.Note, error) {
	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if p.PageType == "" {
		p.PageType = models.PageTypeDefault
	}
	if p.Margins == "" {
		p.Margins = models.MarginsNormal
	}
	if p.PageColor == "" {
		p.PageColor = "#FFFFFF"
	}
	if !validPageType(p.PageType) {
		return nil, fmt.Errorf("%w: invalid page type %q", noteerr.ErrInvalidArgument, p.PageType)
	}
	if !validMargins(p.Margins) {
		return nil, fmt.Errorf("%w: invalid margins %q", noteerr.ErrInvalidArgument, p.Margins)
	}

	if p.NotebookID != "" {
		if err := s.checkNotebook(ctx, p.NotebookID, ownerID); err != nil {
			return nil, err
		}
	}

	now := s.now()
	n := &models.Note{
		ID:            uuid.NewString(),
		Owner:         owner.Ref(),
		Collaborators: []models.Collaborator{},
		Title:         normalizeTitle(p.Title),
		Content:       p.Content,
		NotebookID:    p.NotebookID,
		PageType:      p.PageType,
		PageColor:     p.PageColor,
		Margins:       p.Margins,
		IsPinned:      p.IsPinned,
		IsArchived:    p.IsArchived,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.notes.Insert(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// checkNotebook verifies the notebook exists and belongs to the user.
// A notebook the user cannot see reads as absent.
func (s *NoteService) checkNotebook(ctx context.Context, notebookID, userID string) error {
	if err := checkID(notebookID); err != nil {
		return err
	}
	nb, err := s.notebooks.GetByID(ctx, notebookID)
	if err != nil {
		return err
	}
	if nb.OwnerID != userID {
		return noteerr.ErrNotFound
	}
	return nil
}

// Fetch loads a note for the acting user. A note the user has no
// relation to is reported exactly like a nonexistent one.
func (s *NoteService) Fetch(ctx context.Context, noteID, userID string) (*models.Note, error) {
	if err := checkID(noteID); err != nil {
		return nil, err
	}
	n, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if !access.ResolveLevel(n, userID).Allows(access.Read) {
		return nil, noteerr.ErrNotFound
	}
	return n, nil
}

// List returns all notes visible to the user: owned plus
// collaborator-of, pinned first, most recently updated next.
func (s *NoteService) List(ctx context.Context, userID string, f models.NoteFilter) ([]models.Note, error) {
	return s.notes.ListVisible(ctx, userID, f)
}

// Update applies the provided fields and persists the full record,
// refreshing the update timestamp. Requires editor or owner; a viewer
// or an unrelated user gets ErrForbidden.
func (s *NoteService) Update(ctx context.Context, noteID, userID string, p models.NotePatch) (*models.Note, error) {
	if err := checkID(noteID); err != nil {
		return nil, err
	}
	n, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if !access.ResolveLevel(n, userID).Allows(access.Edit) {
		return nil, fmt.Errorf("%w: editing requires the editor role", noteerr.ErrForbidden)
	}

	if p.Title != nil {
		n.Title = normalizeTitle(*p.Title)
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.NotebookID != nil {
		if *p.NotebookID != "" {
			if err := s.checkNotebook(ctx, *p.NotebookID, userID); err != nil {
				return nil, err
			}
		}
		n.NotebookID = *p.NotebookID
	}
	if p.PageType != nil {
		if !validPageType(*p.PageType) {
			return nil, fmt.Errorf("%w: invalid page type %q", noteerr.ErrInvalidArgument, *p.PageType)
		}
		n.PageType = *p.PageType
	}
	if p.PageColor != nil {
		n.PageColor = *p.PageColor
	}
	if p.Margins != nil {
		if !validMargins(*p.Margins) {
			return nil, fmt.Errorf("%w: invalid margins %q", noteerr.ErrInvalidArgument, *p.Margins)
		}
		n.Margins = *p.Margins
	}
	if p.IsPinned != nil {
		n.IsPinned = *p.IsPinned
	}
	if p.IsArchived != nil {
		n.IsArchived = *p.IsArchived
	}
	n.UpdatedAt = s.now()

	if err := s.notes.Update(ctx, n); err != nil {
		return nil, err
	}
	return s.notes.GetByID(ctx, noteID)
}

// Delete destroys the note. Owner only; destruction is unconditional
// and immediate.
func (s *NoteService) Delete(ctx context.Context, noteID, userID string) error {
	if err := checkID(noteID); err != nil {
		return err
	}
	n, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return err
	}
	if !access.ResolveLevel(n, userID).Allows(access.Delete) {
		return fmt.Errorf("%w: only the owner can delete a note", noteerr.ErrForbidden)
	}
	return s.notes.Delete(ctx, noteID)
}

// AddCollaborator appends targetUsername to the collaborator list with
// the given role. Owner only. A duplicate add is rejected, not
// silently ignored, and the owner can never be listed as collaborator.
func (s *NoteService) AddCollaborator(ctx context.Context, noteID, userID, targetUsername string, role models.Role) (*models.Note, error) {
	if err := checkID(noteID); err != nil {
		return nil, err
	}
	n, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if !access.ResolveLevel(n, userID).Allows(access.ManageCollaborators) {
		return nil, fmt.Errorf("%w: only the owner can manage collaborators", noteerr.ErrForbidden)
	}
	if !models.ValidCollaboratorRole(role) {
		return nil, fmt.Errorf("%w: role must be editor or viewer", noteerr.ErrInvalidArgument)
	}

	target, err := s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(targetUsername)))
	if err != nil {
		return nil, err
	}
	if target.ID == n.Owner.ID {
		return nil, fmt.Errorf("%w: the owner cannot be a collaborator", noteerr.ErrInvalidArgument)
	}
	for _, c := range n.Collaborators {
		if c.User.ID == target.ID {
			return nil, fmt.Errorf("%w: user is already a collaborator", noteerr.ErrInvalidArgument)
		}
	}

	if err := s.notes.AddCollaborator(ctx, noteID, target.ID, role, s.now()); err != nil {
		return nil, err
	}
	return s.notes.GetByID(ctx, noteID)
}

// RemoveCollaborator removes the single entry matching targetUsername.
// Owner only. A username that does not resolve to a current
// collaborator yields ErrNotFound.
func (s *NoteService) RemoveCollaborator(ctx context.Context, noteID, userID, targetUsername string) (*models.Note, error) {
	if err := checkID(noteID); err != nil {
		return nil, err
	}
	n, err := s.notes.GetByID(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if !access.ResolveLevel(n, userID).Allows(access.ManageCollaborators) {
		return nil, fmt.Errorf("%w: only the owner can manage collaborators", noteerr.ErrForbidden)
	}

	target, err := s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(targetUsername)))
	if err != nil {
		return nil, err
	}
	if err := s.notes.RemoveCollaborator(ctx, noteID, target.ID, s.now()); err != nil {
		return nil, err
	}
	return s.notes.GetByID(ctx, noteID)
}
