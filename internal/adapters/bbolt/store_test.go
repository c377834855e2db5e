package bbolt

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/corey/atomtx/internal/domain/rewrite"
	"github.com/corey/atomtx/internal/ports"
)

// =============================================================================
// bbolt cache store
// Expectation: Entries survive reopen and corrupt or stale-format records read as misses.
// =============================================================================

// newTestStore creates a temporary bbolt store for testing.
func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

// makeTestEntry creates a realistic transform result.
func makeTestEntry() *ports.CacheEntry {
	return &ports.CacheEntry{
		Path:    "src/atoms.ts",
		Output:  []byte("const countAtom = atom(0);\ncountAtom.debugLabel = \"countAtom\";\n"),
		Changed: true,
		Rewrites: []rewrite.Rewrite{
			{Pass: rewrite.PassDebugLabel, Name: "countAtom", Loc: 0},
			{Pass: rewrite.PassRefresh, Name: "countAtom", Key: "src/atoms.ts/countAtom", Exported: true, Loc: 18},
		},
		Preamble: true,
		StoredAt: 1700000000,
	}
}

func TestStore_PutGet_Roundtrip(t *testing.T) {
	store, _ := newTestStore(t)
	original := makeTestEntry()

	require.NoError(t, store.Put("k1", original))

	loaded, err := store.Get("k1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, original, loaded)
}

func TestStore_Get_Miss(t *testing.T) {
	store, _ := newTestStore(t)

	entry, err := store.Get("absent")
	require.NoError(t, err)
	assert.Nil(t, entry, "a fresh store has no entries")

	require.NoError(t, store.Put("present", makeTestEntry()))
	entry, err = store.Get("absent")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestStore_Put_Overwrites(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Put("k", makeTestEntry()))
	require.NoError(t, store.Put("k", &ports.CacheEntry{Path: "b.js", Output: []byte("x;\n")}))

	loaded, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "b.js", loaded.Path)
	assert.False(t, loaded.Changed)
	assert.Empty(t, loaded.Rewrites)
}

func TestStore_Put_Nil(t *testing.T) {
	store, _ := newTestStore(t)
	assert.Error(t, store.Put("k", nil))
}

func TestStore_Get_CorruptEntry(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketTransforms)
		if err != nil {
			return err
		}
		return b.Put([]byte("bad"), []byte("not gob"))
	}))

	_, err := store.Get("bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode entry")
}

func TestStore_StatsAndClear(t *testing.T) {
	store, _ := newTestStore(t)

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, ports.CacheStats{}, stats)

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Put(fmt.Sprintf("k%d", i), makeTestEntry()))
	}
	stats, err = store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Entries)
	assert.Greater(t, stats.Bytes, int64(0))

	require.NoError(t, store.Clear())
	stats, err = store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)

	entry, err := store.Get("k0")
	require.NoError(t, err)
	assert.Nil(t, entry)

	// Idempotent
	require.NoError(t, store.Clear())
}

func TestStore_SurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "restart.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put("k", makeTestEntry()))
	require.NoError(t, store.Close())

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()

	loaded, err := store2.Get("k")
	require.NoError(t, err)
	assert.Equal(t, makeTestEntry(), loaded)
}

func TestStore_FormatChangeDropsEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "format.db")

	store, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Put("k", makeTestEntry()))
	require.NoError(t, store.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMeta).Put(keyFormat, []byte("0"))
	}))
	require.NoError(t, store.Close())

	store2, err := NewStore(path)
	require.NoError(t, err)
	defer store2.Close()

	entry, err := store2.Get("k")
	require.NoError(t, err)
	assert.Nil(t, entry, "entries from another format are dropped")
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		key := fmt.Sprintf("k%d", i)
		go func() {
			defer wg.Done()
			errs <- store.Put(key, makeTestEntry())
		}()
		go func() {
			defer wg.Done()
			_, err := store.Get(key)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 20, stats.Entries)
}

func TestStore_OpenTimeout_DoesNotHang(t *testing.T) {
	// A second open of a locked database times out in about a second.
	dir := t.TempDir()
	path := filepath.Join(dir, "locked.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	defer store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.Error(t, err, "second open should fail with lock timeout")
	assert.Nil(t, store2, "store should be nil on timeout")
	assert.Contains(t, err.Error(), "bbolt open")
	assert.Contains(t, err.Error(), "timeout", "error should mention timeout")
	assert.Less(t, elapsed, 3*time.Second, "should complete within 3s, not hang")
	assert.GreaterOrEqual(t, elapsed, 900*time.Millisecond, "should wait ~1s for the configured timeout")
}

func TestStore_OpenAfterClose_Succeeds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "released.db")

	store1, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.Put("k", makeTestEntry()))
	store1.Close()

	start := time.Now()
	store2, err := NewStore(path)
	elapsed := time.Since(start)

	require.NoError(t, err, "open after close should succeed")
	require.NotNil(t, store2)
	defer store2.Close()
	assert.Less(t, elapsed, 500*time.Millisecond, "should open instantly after lock released")

	entry, err := store2.Get("k")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "src/atoms.ts", entry.Path)
}
