package kvtable

import (
	"fmt"
	"path/filepath"
	"sync"

	bolt "go.etcd.io/bbolt"
)

// BoltStore implements Store on top of a single bbolt file, one bucket per
// table, created lazily on first use — mirroring storage.BoltStore in the
// teacher repo, generalized from a fixed bucket list to arbitrary table
// names since parceltrack's tables (package-attributes, package-events)
// are named by spec §6 rather than by a domain schema.
type BoltStore struct {
	db *bolt.DB

	mu      sync.Mutex
	buckets map[string]bool
}

// NewBoltStore opens (creating if absent) a bbolt database under dataDir.
func NewBoltStore(dataDir, fileName string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, fileName)
	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open kv table database: %w", err)
	}
	return &BoltStore{db: db, buckets: make(map[string]bool)}, nil
}

func (s *BoltStore) ensureBucket(table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buckets[table] {
		return nil
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(table))
		return err
	}); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	s.buckets[table] = true
	return nil
}

// Get returns the raw bytes stored under key in table, or ErrNotFound.
func (s *BoltStore) Get(table, key string) ([]byte, error) {
	if err := s.ensureBucket(table); err != nil {
		return nil, err
	}
	var value []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(table))
		v := b.Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		value = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put writes value under key in table, overwriting any existing value.
func (s *BoltStore) Put(table, key string, value []byte) error {
	if err := s.ensureBucket(table); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(table))
		return b.Put([]byte(key), value)
	})
}

// Delete removes key from table. Deleting an absent key is not an error.
func (s *BoltStore) Delete(table, key string) error {
	if err := s.ensureBucket(table); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(table))
		return b.Delete([]byte(key))
	})
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// PurgeTable removes every key from table, used by the admin purge path
// for a fresh run. It drops the table's bucket and recreates it empty, so
// the table stays usable afterward.
func (s *BoltStore) PurgeTable(table string) error {
	if err := s.ensureBucket(table); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(table)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucketIfNotExists([]byte(table))
		return err
	})
}
