package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite_CreatesFileAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "transfers.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, EnsureSchema(ctx, db, SQLite))
	// running twice is harmless
	require.NoError(t, EnsureSchema(ctx, db, SQLite))

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transfers`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestEnsureSchema_UnknownDialect(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	err = EnsureSchema(context.Background(), db, Dialect("oracle"))
	assert.Error(t, err)
}
