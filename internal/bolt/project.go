package bolt

import (
	"context"
	"fmt"

	"github.com/rpggio/bidboard/internal/domain/project"
	"github.com/rpggio/bidboard/internal/repository"
	"go.etcd.io/bbolt"
)

// ProjectRepository implements project.Repository on bbolt.
type ProjectRepository struct {
	store *Store
}

// NewProjectRepository creates a ProjectRepository backed by store.
func NewProjectRepository(store *Store) *ProjectRepository {
	return &ProjectRepository{store: store}
}

// Create bumps the owner's counter and stores the project under the new count.
func (r *ProjectRepository) Create(ctx context.Context, owner string, proj *project.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var id int64
	err := r.store.db.Update(func(tx *bbolt.Tx) error {
		clients, err := bucket(tx, clientsBucket)
		if err != nil {
			return err
		}
		projects, err := bucket(tx, projectsBucket)
		if err != nil {
			return err
		}

		id = decodeCount(clients.Get([]byte(owner))) + 1
		key := ownerKey(owner, uint64(id))
		if projects.Get(key) != nil {
			return repository.ErrConflict
		}

		record := *proj
		record.ID = id
		record.Owner = owner
		payload, err := marshal(record)
		if err != nil {
			return fmt.Errorf("marshal project: %w", err)
		}

		if err := clients.Put([]byte(owner), encodeCount(id)); err != nil {
			return fmt.Errorf("increment client counter: %w", err)
		}
		return projects.Put(key, payload)
	})
	if err != nil {
		return err
	}

	proj.ID = id
	proj.Owner = owner
	return nil
}

// Get retrieves a project by owner and ID.
func (r *ProjectRepository) Get(ctx context.Context, owner string, id int64) (*project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, repository.ErrNotFound
	}

	var proj project.Project
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		projects, err := bucket(tx, projectsBucket)
		if err != nil {
			return err
		}
		payload := projects.Get(ownerKey(owner, uint64(id)))
		if payload == nil {
			return repository.ErrNotFound
		}
		if err := unmarshal(payload, &proj); err != nil {
			return fmt.Errorf("unmarshal project: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &proj, nil
}

// Update overwrites an existing project.
func (r *ProjectRepository) Update(ctx context.Context, owner string, proj *project.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if proj.ID <= 0 {
		return repository.ErrNotFound
	}

	return r.store.db.Update(func(tx *bbolt.Tx) error {
		projects, err := bucket(tx, projectsBucket)
		if err != nil {
			return err
		}
		key := ownerKey(owner, uint64(proj.ID))
		existing := projects.Get(key)
		if existing == nil {
			return repository.ErrNotFound
		}

		var stored project.Project
		if err := unmarshal(existing, &stored); err != nil {
			return fmt.Errorf("unmarshal project: %w", err)
		}

		record := *proj
		record.Owner = owner
		record.CreatedAt = stored.CreatedAt
		payload, err := marshal(record)
		if err != nil {
			return fmt.Errorf("marshal project: %w", err)
		}
		return projects.Put(key, payload)
	})
}

// Delete removes a project. The owner's counter is left untouched.
func (r *ProjectRepository) Delete(ctx context.Context, owner string, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id <= 0 {
		return repository.ErrNotFound
	}

	return r.store.db.Update(func(tx *bbolt.Tx) error {
		projects, err := bucket(tx, projectsBucket)
		if err != nil {
			return err
		}
		key := ownerKey(owner, uint64(id))
		if projects.Get(key) == nil {
			return repository.ErrNotFound
		}
		return projects.Delete(key)
	})
}

// List returns an owner's projects ordered by ID.
func (r *ProjectRepository) List(ctx context.Context, owner string, opts project.ListOptions) ([]project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []project.Project
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		projects, err := bucket(tx, projectsBucket)
		if err != nil {
			return err
		}
		return scanOwner(projects, owner, false, func(v []byte) (bool, error) {
			var proj project.Project
			if err := unmarshal(v, &proj); err != nil {
				return false, fmt.Errorf("unmarshal project: %w", err)
			}
			all = append(all, proj)
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}

	return project.FilterPage(all, opts), nil
}

// ClientCount returns the number of projects ever created by owner.
func (r *ProjectRepository) ClientCount(ctx context.Context, owner string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var count int64
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		clients, err := bucket(tx, clientsBucket)
		if err != nil {
			return err
		}
		count = decodeCount(clients.Get([]byte(owner)))
		return nil
	})
	return count, err
}
