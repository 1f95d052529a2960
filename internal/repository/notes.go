package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/notely/notely/internal/models"
	"github.com/notely/notely/internal/noteerr"
)

// PostgresNoteRepository implements note persistence, including the
// collaborator list, against PostgreSQL.
type PostgresNoteRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresNoteRepository creates a new PostgresNoteRepository using
// the provided *sql.DB.
func NewPostgresNoteRepository(db *sql.DB) *PostgresNoteRepository {
	return &PostgresNoteRepository{DB: db}
}

const noteColumns = `
	n.id, n.owner_id, u.username, u.email, u.full_name,
	n.notebook_id, n.title, n.content,
	n.page_type, n.page_color, n.margins, n.is_pinned, n.is_archived,
	n.created_at, n.updated_at`

// scanNote reads one joined note row.
func scanNote(s interface{ Scan(...any) error }) (*models.Note, error) {
	var n models.Note
	var notebookID sql.NullString
	err := s.Scan(
		&n.ID, &n.Owner.ID, &n.Owner.Username, &n.Owner.Email, &n.Owner.FullName,
		&notebookID, &n.Title, &n.Content,
		&n.PageType, &n.PageColor, &n.Margins, &n.IsPinned, &n.IsArchived,
		&n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.NotebookID = notebookID.String
	n.Collaborators = []models.Collaborator{}
	return &n, nil
}

// Insert stores a newly created note. The collaborator list starts
// empty, so only the note row is written.
func (r *PostgresNoteRepository) Insert(ctx context.Context, n *models.Note) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO notes (id, owner_id, notebook_id, title, content,
			page_type, page_color, margins, is_pinned, is_archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, n.ID, n.Owner.ID, nullable(n.NotebookID), n.Title, n.Content,
		n.PageType, n.PageColor, n.Margins, n.IsPinned, n.IsArchived, n.CreatedAt, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

// GetByID fetches a note with its owner and collaborator list expanded
// to profile fields. Returns ErrNotFound if the id does not resolve.
func (r *PostgresNoteRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+noteColumns+`
		FROM notes n JOIN users u ON u.id = n.owner_id
		WHERE n.id = $1
	`, id)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, noteerr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select note: %w", err)
	}

	collabs, err := r.collaborators(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	n.Collaborators = collabs[id]
	if n.Collaborators == nil {
		n.Collaborators = []models.Collaborator{}
	}
	return n, nil
}

// ListVisible returns all notes the user owns or collaborates on,
// pinned first, then most recently updated. Filters narrow by
// notebook, pin, and archive flags.
func (r *PostgresNoteRepository) ListVisible(ctx context.Context, userID string, f models.NoteFilter) ([]models.Note, error) {
	query := `
		SELECT DISTINCT ` + noteColumns + `
		FROM notes n
		JOIN users u ON u.id = n.owner_id
		LEFT JOIN note_collaborators c ON c.note_id = n.id
		WHERE (n.owner_id = $1 OR c.user_id = $1)`
	args := []any{userID}

	if f.NotebookID != "" {
		args = append(args, f.NotebookID)
		query += fmt.Sprintf(" AND n.notebook_id = $%d", len(args))
	}
	if f.IsPinned != nil {
		args = append(args, *f.IsPinned)
		query += fmt.Sprintf(" AND n.is_pinned = $%d", len(args))
	}
	if f.IsArchived != nil {
		args = append(args, *f.IsArchived)
		query += fmt.Sprintf(" AND n.is_archived = $%d", len(args))
	}
	query += " ORDER BY n.is_pinned DESC, n.updated_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	var ids []string
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *n)
		ids = append(ids, n.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return notes, nil
	}

	collabs, err := r.collaborators(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range notes {
		if list := collabs[notes[i].ID]; list != nil {
			notes[i].Collaborators = list
		}
	}
	return notes, nil
}

// collaborators loads the collaborator lists for the given note ids in
// one query, expanded to user profile fields, in insertion order.
func (r *PostgresNoteRepository) collaborators(ctx context.Context, noteIDs []string) (map[string][]models.Collaborator, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.note_id, u.id, u.username, u.email, u.full_name, c.role
		FROM note_collaborators c JOIN users u ON u.id = c.user_id
		WHERE c.note_id = ANY($1)
		ORDER BY c.added_at
	`, pq.Array(noteIDs))
	if err != nil {
		return nil, fmt.Errorf("list collaborators: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.Collaborator)
	for rows.Next() {
		var noteID string
		var c models.Collaborator
		if err := rows.Scan(&noteID, &c.User.ID, &c.User.Username, &c.User.Email, &c.User.FullName, &c.Role); err != nil {
			return nil, fmt.Errorf("scan collaborator: %w", err)
		}
		out[noteID] = append(out[noteID], c)
	}
	return out, rows.Err()
}

// Update replaces the mutable fields of the note row. The caller is
// expected to have loaded the record, applied its patch, and refreshed
// UpdatedAt; the row replace itself is atomic, which makes concurrent
// saves last-write-wins at full-record granularity.
func (r *PostgresNoteRepository) Update(ctx context.Context, n *models.Note) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE notes SET notebook_id = $2, title = $3, content = $4,
			page_type = $5, page_color = $6, margins = $7,
			is_pinned = $8, is_archived = $9, updated_at = $10
		WHERE id = $1
	`, n.ID, nullable(n.NotebookID), n.Title, n.Content,
		n.PageType, n.PageColor, n.Margins, n.IsPinned, n.IsArchived, n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update note: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return noteerr.ErrNotFound
	}
	return nil
}

// Delete removes the note. Collaborator entries go with it via
// ON DELETE CASCADE.
func (r *PostgresNoteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return noteerr.ErrNotFound
	}
	return nil
}

// AddCollaborator appends a collaborator entry and refreshes the note's
// update timestamp in one transaction. The (note_id, user_id) primary
// key backs the service-level duplicate check.
func (r *PostgresNoteRepository) AddCollaborator(ctx context.Context, noteID, userID string, role models.Role, now time.Time) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO note_collaborators (note_id, user_id, role) VALUES ($1, $2, $3)
		`, noteID, userID, role)
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: user is already a collaborator", noteerr.ErrInvalidArgument)
		}
		if err != nil {
			return fmt.Errorf("insert collaborator: %w", err)
		}
		return touch(ctx, tx, noteID, now)
	})
}

// RemoveCollaborator deletes the matching entry and refreshes the
// note's update timestamp. Returns ErrNotFound when the user is not a
// current collaborator.
func (r *PostgresNoteRepository) RemoveCollaborator(ctx context.Context, noteID, userID string, now time.Time) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			DELETE FROM note_collaborators WHERE note_id = $1 AND user_id = $2
		`, noteID, userID)
		if err != nil {
			return fmt.Errorf("delete collaborator: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return noteerr.ErrNotFound
		}
		return touch(ctx, tx, noteID, now)
	})
}

func (r *PostgresNoteRepository) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// touch refreshes updated_at; collaborator-list changes count as
// metadata mutations.
func touch(ctx context.Context, tx *sql.Tx, noteID string, now time.Time) error {
	_, err := tx.ExecContext(ctx, `UPDATE notes SET updated_at = $2 WHERE id = $1`, noteID, now)
	if err != nil {
		return fmt.Errorf("touch note: %w", err)
	}
	return nil
}

// nullable maps an empty string to SQL NULL for optional references.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
