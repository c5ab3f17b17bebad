// Package testutil builds throwaway stores for tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tgienger/gtd/internal/db"
	"github.com/tgienger/gtd/internal/logging"
)

// NewStore opens a migrated sqlite store in a temp dir, closed on cleanup
func NewStore(t *testing.T) *db.Store {
	t.Helper()

	conn, err := db.Open(filepath.Join(t.TempDir(), "gtd.db"))
	require.NoError(t, err)

	store := db.NewStore(conn, logging.Discard())
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
