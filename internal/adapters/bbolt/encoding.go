// Entry encoding.
//
// Entries are gob-encoded: they are small, written once per file and
// transform, and only ever read back by this package. The store's format
// version (keyFormat in the meta bucket) must change whenever CacheEntry
// changes shape; a mismatch drops the transforms bucket on open.
package bbolt

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/corey/atomtx/internal/ports"
)

// formatVersion is stored in the meta bucket.
const formatVersion = "1"

func encodeEntry(entry *ports.CacheEntry) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entry); err != nil {
		return nil, fmt.Errorf("encode entry: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeEntry(data []byte) (*ports.CacheEntry, error) {
	var entry ports.CacheEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
		return nil, fmt.Errorf("decode entry: %w", err)
	}
	return &entry, nil
}
