package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ComponentRepository hands out stable addresses for deployed components
type ComponentRepository struct {
	db *DB
}

// NewComponentRepository creates a new ComponentRepository
func NewComponentRepository(db *DB) *ComponentRepository {
	return &ComponentRepository{db: db}
}

// Address returns the component's address, allocating one on first use
func (r *ComponentRepository) Address(ctx context.Context, name string) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var address string
	err = tx.QueryRowContext(ctx, `SELECT address FROM components WHERE name = ?`, name).Scan(&address)
	if err == nil {
		return address, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("failed to get component address: %w", err)
	}

	address = uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO components (name, address, created_at) VALUES (?, ?, ?)`,
		name, address, time.Now(),
	); err != nil {
		return "", fmt.Errorf("failed to store component address: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return address, nil
}
