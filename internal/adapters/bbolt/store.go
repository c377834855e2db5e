// Package bbolt implements the ports.Cache interface using bbolt (embedded B+ tree).
// Transform results live in a single "transforms" bucket keyed by the content
// digest the app computes; a "meta" bucket records the entry format. Writes are
// transactional: a crash mid-write cannot corrupt previously committed entries.
package bbolt

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/corey/atomtx/internal/ports"
)

// Bucket keys
var (
	bucketTransforms = []byte("transforms")
	bucketMeta       = []byte("meta")
	keyFormat        = []byte("format")
)

// Store implements ports.Cache backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ ports.Cache = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path. Opening
// fails after one second when another process holds the database lock.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	s := &Store{db: db}
	if err := s.checkFormat(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// checkFormat drops all entries written in another entry format.
func (s *Store) checkFormat() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}
		if string(meta.Get(keyFormat)) == formatVersion {
			return nil
		}
		if err := tx.DeleteBucket(bucketTransforms); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		return meta.Put(keyFormat, []byte(formatVersion))
	})
}

// Get returns the entry stored under key, or nil, nil on a miss.
func (s *Store) Get(key string) (*ports.CacheEntry, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTransforms)
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return decodeEntry(data)
}

// Put stores entry under key, replacing any prior entry.
func (s *Store) Put(key string, entry *ports.CacheEntry) error {
	if entry == nil {
		return fmt.Errorf("nil cache entry")
	}
	data, err := encodeEntry(entry)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketTransforms)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

// Stats reports the number of entries and their encoded size.
func (s *Store) Stats() (ports.CacheStats, error) {
	var stats ports.CacheStats
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTransforms)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			stats.Entries++
			stats.Bytes += int64(len(v))
			return nil
		})
	})
	return stats, err
}

// Clear removes every entry. Idempotent: clearing an empty cache is not an error.
func (s *Store) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketTransforms); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		return nil
	})
}
