package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/notely/notely/internal/models"
	"github.com/notely/notely/internal/noteerr"
)

// PostgresNotebookRepository implements notebook persistence against
// PostgreSQL.
type PostgresNotebookRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresNotebookRepository creates a new PostgresNotebookRepository
// with the given database connection.
func NewPostgresNotebookRepository(db *sql.DB) *PostgresNotebookRepository {
	return &PostgresNotebookRepository{DB: db}
}

// Create inserts a new notebook record.
func (r *PostgresNotebookRepository) Create(ctx context.Context, nb *models.Notebook) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO notebooks (id, owner_id, name, color, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, nb.ID, nb.OwnerID, nb.Name, nb.Color, nb.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notebook: %w", err)
	}
	return nil
}

// GetByID fetches a notebook by id. Returns ErrNotFound if absent.
func (r *PostgresNotebookRepository) GetByID(ctx context.Context, id string) (*models.Notebook, error) {
	var nb models.Notebook
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, owner_id, name, color, created_at FROM notebooks WHERE id = $1
	`, id).Scan(&nb.ID, &nb.OwnerID, &nb.Name, &nb.Color, &nb.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, noteerr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select notebook: %w", err)
	}
	return &nb, nil
}

// ListByOwner returns all notebooks owned by the user, newest first.
func (r *PostgresNotebookRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Notebook, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, owner_id, name, color, created_at FROM notebooks
		WHERE owner_id = $1 ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notebooks: %w", err)
	}
	defer rows.Close()

	var notebooks []models.Notebook
	for rows.Next() {
		var nb models.Notebook
		if err := rows.Scan(&nb.ID, &nb.OwnerID, &nb.Name, &nb.Color, &nb.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notebook: %w", err)
		}
		notebooks = append(notebooks, nb)
	}
	return notebooks, rows.Err()
}

// Delete removes the notebook. Notes filed into it are removed by the
// ON DELETE CASCADE constraint on notes.notebook_id.
func (r *PostgresNotebookRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM notebooks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notebook: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return noteerr.ErrNotFound
	}
	return nil
}
