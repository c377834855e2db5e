// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import "github.com/corey/atomtx/internal/domain/rewrite"

// Cache persists transform results keyed by a digest of everything that
// determines the output (engine version, passes, configuration, file path and
// source). The backing store (bbolt) serializes writes; concurrent reads are
// safe. A lost or corrupt entry only costs a re-transform.
type Cache interface {
	// Get returns the entry stored under key, or nil, nil on a miss.
	Get(key string) (*CacheEntry, error)

	// Put stores entry under key, replacing any prior entry.
	Put(key string, entry *CacheEntry) error

	// Stats reports the number of entries and their encoded size.
	Stats() (CacheStats, error)

	// Clear removes every entry. Clearing an empty cache is not an error.
	Clear() error
}

// CacheEntry is one stored transform result.
type CacheEntry struct {
	Path     string            // file path the entry was produced for
	Output   []byte            // transformed source
	Changed  bool              // false when Output equals the input
	Rewrites []rewrite.Rewrite // labels and wraps the passes applied
	Preamble bool              // whether the registry bootstrap was inserted
	StoredAt int64             // unix seconds
}

// CacheStats summarizes the cache contents.
type CacheStats struct {
	Entries int
	Bytes   int64
}
