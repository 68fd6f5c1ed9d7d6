package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/bidboard/internal/domain/account"
	"github.com/rpggio/bidboard/internal/repository"
)

// APIKeyRepository resolves bearer API keys to owners
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// Add stores the hash of token for id
func (r *APIKeyRepository) Add(ctx context.Context, token string, id account.Identity, description string) error {
	if err := id.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, owner, kind, created_at, description) VALUES (?, ?, ?, ?, ?)`,
		HashToken(token), id.Owner, string(id.Kind), time.Now(), description,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("api key already registered: %w", repository.ErrConflict)
		}
		return fmt.Errorf("failed to add api key: %w", err)
	}
	return nil
}

// ResolveOwner returns the identity a token belongs to and records its use.
// Unknown tokens return repository.ErrNotFound.
func (r *APIKeyRepository) ResolveOwner(ctx context.Context, token string) (account.Identity, error) {
	hash := HashToken(token)
	var id account.Identity
	var kind string
	err := r.db.QueryRowContext(ctx, `SELECT owner, kind FROM api_keys WHERE key_hash = ?`, hash).Scan(&id.Owner, &kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return account.Identity{}, fmt.Errorf("api key: %w", repository.ErrNotFound)
		}
		return account.Identity{}, fmt.Errorf("failed to resolve api key: %w", err)
	}
	id.Kind = account.Kind(kind)
	if err := id.Validate(); err != nil {
		return account.Identity{}, fmt.Errorf("stored api key: %w", err)
	}
	_, _ = r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now(), hash)
	return id, nil
}

// HashToken returns the stored form of an API key
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
