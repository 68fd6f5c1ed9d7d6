// Package bolt provides an embedded bbolt backend for projects, history and
// component addresses. Values are CBOR encoded.
package bolt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"go.etcd.io/bbolt"
)

const (
	clientsBucket    = "clients"
	projectsBucket   = "projects"
	historyBucket    = "history"
	componentsBucket = "components"
	apiKeysBucket    = "api_keys"
)

// Store wraps a bbolt database shared by the repositories in this package.
type Store struct {
	db *bbolt.DB
}

// Open opens a bbolt-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{clientsBucket, projectsBucket, historyBucket, componentsBucket, apiKeysBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func bucket(tx *bbolt.Tx, name string) (*bbolt.Bucket, error) {
	b := tx.Bucket([]byte(name))
	if b == nil {
		return nil, fmt.Errorf("%s bucket is missing", name)
	}
	return b, nil
}

// ownerPrefix is the key prefix shared by every record of one owner. The
// owner is length-prefixed, so no owner's range can contain another's keys.
func ownerPrefix(owner string) []byte {
	key := binary.AppendUvarint(nil, uint64(len(owner)))
	return append(key, owner...)
}

// ownerKey orders an owner's records by numeric id.
func ownerKey(owner string, id uint64) []byte {
	key := ownerPrefix(owner)
	return binary.BigEndian.AppendUint64(key, id)
}

// prefixEnd returns the smallest key greater than every key starting with
// prefix, or nil when there is none.
func prefixEnd(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

func encodeCount(n int64) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(n))
}

func decodeCount(b []byte) int64 {
	if len(b) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}

// scanOwner calls fn for each value under owner in key order, stopping when fn returns false.
func scanOwner(b *bbolt.Bucket, owner string, reverse bool, fn func(v []byte) (bool, error)) error {
	prefix := ownerPrefix(owner)
	c := b.Cursor()

	if !reverse {
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			more, err := fn(v)
			if err != nil || !more {
				return err
			}
		}
		return nil
	}

	// Position on the last key of the prefix range.
	var k, v []byte
	if end := prefixEnd(prefix); end == nil {
		k, v = c.Last()
	} else if k, v = c.Seek(end); k == nil {
		k, v = c.Last()
	} else {
		k, v = c.Prev()
	}
	for ; k != nil && bytes.HasPrefix(k, prefix); k, v = c.Prev() {
		more, err := fn(v)
		if err != nil || !more {
			return err
		}
	}
	return nil
}

var encMode = func() cbor.EncMode {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

func marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

func unmarshal(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}
