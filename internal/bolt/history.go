package bolt

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/bidboard/internal/domain/history"
	"go.etcd.io/bbolt"
)

// HistoryRepository implements history.Repository on bbolt.
type HistoryRepository struct {
	store *Store
}

// NewHistoryRepository creates a HistoryRepository backed by store.
func NewHistoryRepository(store *Store) *HistoryRepository {
	return &HistoryRepository{store: store}
}

// Log appends an entry, assigning it the bucket's next sequence number.
func (r *HistoryRepository) Log(ctx context.Context, owner string, entry *history.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	return r.store.db.Update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, historyBucket)
		if err != nil {
			return err
		}
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("next history sequence: %w", err)
		}

		record := *entry
		record.ID = int64(seq)
		record.Owner = owner
		payload, err := marshal(record)
		if err != nil {
			return fmt.Errorf("marshal history entry: %w", err)
		}
		if err := b.Put(ownerKey(owner, seq), payload); err != nil {
			return err
		}

		entry.ID = record.ID
		entry.Owner = owner
		return nil
	})
}

// List returns an owner's entries, newest first.
func (r *HistoryRepository) List(ctx context.Context, owner string, opts history.ListOptions) ([]history.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []history.Entry
	skipped := 0
	err := r.store.db.View(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, historyBucket)
		if err != nil {
			return err
		}
		return scanOwner(b, owner, true, func(v []byte) (bool, error) {
			var entry history.Entry
			if err := unmarshal(v, &entry); err != nil {
				return false, fmt.Errorf("unmarshal history entry: %w", err)
			}
			if opts.ProjectID > 0 && entry.ProjectID != opts.ProjectID {
				return true, nil
			}
			if opts.Type != nil && entry.Type != *opts.Type {
				return true, nil
			}
			if skipped < opts.Offset {
				skipped++
				return true, nil
			}
			entries = append(entries, entry)
			return opts.Limit <= 0 || len(entries) < opts.Limit, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
