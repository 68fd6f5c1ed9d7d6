package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/bidboard/internal/domain/project"
	"github.com/rpggio/bidboard/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `owner, project_id, title, description, skills, price_low, price_high, due_date, created_at, updated_at`

// Create bumps the owner's counter and inserts the project under the new count
func (r *ProjectRepository) Create(ctx context.Context, owner string, proj *project.Project) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	counterQuery := `
		INSERT INTO clients (owner, project_count)
		VALUES (?, 1)
		ON CONFLICT(owner) DO UPDATE SET project_count = project_count + 1
	`
	if _, err := tx.ExecContext(ctx, counterQuery, owner); err != nil {
		return fmt.Errorf("failed to increment client counter: %w", err)
	}

	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT project_count FROM clients WHERE owner = ?`, owner).Scan(&id); err != nil {
		return fmt.Errorf("failed to read client counter: %w", err)
	}

	insertQuery := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, insertQuery,
		owner,
		id,
		proj.Title,
		proj.Description,
		proj.Skills,
		proj.PriceLow,
		proj.PriceHigh,
		proj.DueDate,
		proj.CreatedAt,
		proj.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	proj.ID = id
	proj.Owner = owner
	return nil
}

// Get retrieves a project by owner and ID
func (r *ProjectRepository) Get(ctx context.Context, owner string, id int64) (*project.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE owner = ? AND project_id = ?
	`

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, owner, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return proj, nil
}

// Update overwrites every mutable field of an existing project
func (r *ProjectRepository) Update(ctx context.Context, owner string, proj *project.Project) error {
	query := `
		UPDATE projects
		SET title = ?, description = ?, skills = ?, price_low = ?, price_high = ?, due_date = ?, updated_at = ?
		WHERE owner = ? AND project_id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		proj.Title,
		proj.Description,
		proj.Skills,
		proj.PriceLow,
		proj.PriceHigh,
		proj.DueDate,
		proj.UpdatedAt,
		owner,
		proj.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a project. The client counter is left untouched.
func (r *ProjectRepository) Delete(ctx context.Context, owner string, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE owner = ? AND project_id = ?`, owner, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// List returns an owner's projects ordered by ID
func (r *ProjectRepository) List(ctx context.Context, owner string, opts project.ListOptions) ([]project.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE owner = ?
		ORDER BY project_id ASC
	`
	args := []any{owner}

	// Skill tags are folded in Go, so paging happens after filtering.
	window := opts.Skill == ""
	if window {
		if opts.Limit > 0 {
			query += " LIMIT ?"
			args = append(args, opts.Limit)
		} else if opts.Offset > 0 {
			query += " LIMIT -1"
		}
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	if !window {
		projects = project.FilterPage(projects, opts)
	}
	return projects, nil
}

// ClientCount returns how many projects the owner has created, zero for unknown owners
func (r *ProjectRepository) ClientCount(ctx context.Context, owner string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT project_count FROM clients WHERE owner = ?`, owner).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get client count: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var proj project.Project
	err := row.Scan(
		&proj.Owner,
		&proj.ID,
		&proj.Title,
		&proj.Description,
		&proj.Skills,
		&proj.PriceLow,
		&proj.PriceHigh,
		&proj.DueDate,
		&proj.CreatedAt,
		&proj.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &proj, nil
}
