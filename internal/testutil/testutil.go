package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dewdrop/dewdrop/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations
// applied. The connection closes automatically when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database.DB
}
