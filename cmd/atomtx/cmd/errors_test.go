package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	bolt "go.etcd.io/bbolt"
)

// =============================================================================
// CLI error diagnosis
// Expectation: A locked cache database is recognized and explained.
// =============================================================================

func TestIsDBLockError(t *testing.T) {
	assert.False(t, isDBLockError(nil))
	assert.False(t, isDBLockError(errors.New("permission denied")))
	assert.True(t, isDBLockError(fmt.Errorf("open store: bbolt open: %w", bolt.ErrTimeout)))
}

func TestDiagnoseDBLock(t *testing.T) {
	msg := diagnoseDBLock("/project")
	assert.Contains(t, msg, "/project/.atomtx/cache.db")
	assert.Contains(t, msg, "--no-cache")
}
