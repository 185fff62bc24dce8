package seeder_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Additional-Code/ordergraph/internal/database"
	"github.com/Additional-Code/ordergraph/internal/entity"
	"github.com/Additional-Code/ordergraph/internal/migration"
	repo "github.com/Additional-Code/ordergraph/internal/repository/order"
	"github.com/Additional-Code/ordergraph/internal/seeder"
)

func TestSeeder_OrdersIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	m, err := migration.NewWithDB(db, "sqlite", nil)
	require.NoError(t, err)
	require.NoError(t, m.Up(ctx))
	conns, err := database.Wrap(db, "sqlite")
	require.NoError(t, err)
	store := repo.NewRepository(conns)

	s := seeder.New(store, entity.DefaultFactory{}, zaptest.NewLogger(t))

	n, err := s.Orders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.Orders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "second run finds the samples")

	got, err := store.LoadGraph(ctx, "seed-order-1000")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	require.Len(t, got.Shipments, 1)
	assert.Same(t, got.Items[0], got.Shipments[0].Items[0].LineItem)
	assert.True(t, got.Sum.Equal(got.Total))
}

func TestSamples(t *testing.T) {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	samples := seeder.Samples(now)
	require.Len(t, samples, 2)
	for _, s := range samples {
		assert.Equal(t, now, s.CreatedAt)
		assert.NotEmpty(t, s.ID)
	}
	assert.NotNil(t, samples[0].LineItemByKey("seed-li-1"))
}
