package migration_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Additional-Code/ordergraph/internal/migration"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrator_UpAndDown(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	m, err := migration.NewWithDB(db, "sqlite", zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NoError(t, m.Up(ctx))
	version, err := m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	var tables int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name LIKE 'order_%'`).Scan(&tables))
	assert.Equal(t, 7, tables)

	require.NoError(t, m.Up(ctx), "re-running is a no-op")

	require.NoError(t, m.Down(ctx, 1, false))
	version, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	require.NoError(t, m.Down(ctx, 0, true))
	version, err = m.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)
}

func TestNewWithDB_UnsupportedDriver(t *testing.T) {
	_, err := migration.NewWithDB(openSQLite(t), "oracle", nil)
	assert.EqualError(t, err, "unsupported goose dialect for driver oracle")
}
