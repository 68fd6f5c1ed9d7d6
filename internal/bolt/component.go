package bolt

import (
	"context"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"
)

// ComponentRepository hands out stable addresses for deployed components.
type ComponentRepository struct {
	store *Store
}

// NewComponentRepository creates a ComponentRepository backed by store.
func NewComponentRepository(store *Store) *ComponentRepository {
	return &ComponentRepository{store: store}
}

// Address returns the component's address, allocating one on first use.
func (r *ComponentRepository) Address(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var address string
	err := r.store.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, componentsBucket)
		if err != nil {
			return err
		}
		if existing := b.Get([]byte(name)); existing != nil {
			address = string(existing)
			return nil
		}
		address = uuid.NewString()
		return b.Put([]byte(name), []byte(address))
	})
	if err != nil {
		return "", err
	}
	return address, nil
}
