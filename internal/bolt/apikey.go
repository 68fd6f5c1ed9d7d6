package bolt

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/rpggio/bidboard/internal/domain/account"
	"github.com/rpggio/bidboard/internal/repository"
	"go.etcd.io/bbolt"
)

type apiKeyRecord struct {
	Owner       string    `cbor:"1,keyasint"`
	Description string    `cbor:"2,keyasint"`
	CreatedAt   time.Time `cbor:"3,keyasint"`
	Kind        string    `cbor:"4,keyasint,omitempty"`
}

// APIKeyRepository resolves bearer API keys to owners.
type APIKeyRepository struct {
	store *Store
}

// NewAPIKeyRepository creates an APIKeyRepository backed by store.
func NewAPIKeyRepository(store *Store) *APIKeyRepository {
	return &APIKeyRepository{store: store}
}

// Add stores the hash of token for id.
func (r *APIKeyRepository) Add(ctx context.Context, token string, id account.Identity, description string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := id.Validate(); err != nil {
		return err
	}
	payload, err := marshal(apiKeyRecord{
		Owner:       id.Owner,
		Kind:        string(id.Kind),
		Description: description,
		CreatedAt:   time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal api key: %w", err)
	}

	return r.store.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, apiKeysBucket)
		if err != nil {
			return err
		}
		key := hashToken(token)
		if b.Get(key) != nil {
			return fmt.Errorf("api key already registered: %w", repository.ErrConflict)
		}
		return b.Put(key, payload)
	})
}

// ResolveOwner returns the identity a token belongs to. Unknown tokens return
// repository.ErrNotFound. Records written without a kind resolve to
// account.DefaultKind.
func (r *APIKeyRepository) ResolveOwner(ctx context.Context, token string) (account.Identity, error) {
	if err := ctx.Err(); err != nil {
		return account.Identity{}, err
	}

	var rec apiKeyRecord
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, apiKeysBucket)
		if err != nil {
			return err
		}
		payload := b.Get(hashToken(token))
		if payload == nil {
			return repository.ErrNotFound
		}
		if err := unmarshal(payload, &rec); err != nil {
			return fmt.Errorf("unmarshal api key: %w", err)
		}
		return nil
	})
	if err != nil {
		return account.Identity{}, fmt.Errorf("api key: %w", err)
	}

	kind, err := account.ParseKind(rec.Kind)
	if err != nil {
		return account.Identity{}, fmt.Errorf("stored api key: %w", err)
	}
	id := account.Identity{Owner: rec.Owner, Kind: kind}
	if err := id.Validate(); err != nil {
		return account.Identity{}, fmt.Errorf("stored api key: %w", err)
	}
	return id, nil
}

func hashToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return []byte(hex.EncodeToString(sum[:]))
}
