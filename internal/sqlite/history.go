package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/bidboard/internal/domain/history"
)

// HistoryRepository implements history.Repository for SQLite
type HistoryRepository struct {
	db *DB
}

// NewHistoryRepository creates a new HistoryRepository
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Log inserts a new history entry
func (r *HistoryRepository) Log(ctx context.Context, owner string, entry *history.Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO project_history (owner, project_id, event_type, summary, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		owner,
		entry.ProjectID,
		entry.Type,
		entry.Summary,
		entry.Details,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log history: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}

	entry.Owner = owner
	entry.CreatedAt = createdAt

	return nil
}

// List returns history entries matching the given filters, newest first
func (r *HistoryRepository) List(ctx context.Context, owner string, opts history.ListOptions) ([]history.Entry, error) {
	query := `
		SELECT id, owner, project_id, event_type, summary, details, created_at
		FROM project_history
		WHERE owner = ?
	`

	args := []any{owner}
	conditions := []string{}

	if opts.ProjectID > 0 {
		conditions = append(conditions, "project_id = ?")
		args = append(args, opts.ProjectID)
	}
	if opts.Type != nil {
		conditions = append(conditions, "event_type = ?")
		args = append(args, *opts.Type)
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC, id DESC"

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

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		var entry history.Entry
		if err := rows.Scan(
			&entry.ID,
			&entry.Owner,
			&entry.ProjectID,
			&entry.Type,
			&entry.Summary,
			&entry.Details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	return entries, nil
}
