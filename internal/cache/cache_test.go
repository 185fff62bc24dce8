package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap/zaptest"

	"github.com/Additional-Code/ordergraph/internal/cache"
	"github.com/Additional-Code/ordergraph/internal/config"
)

type mapStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *mapStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return v, nil
}

func (m *mapStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mapStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type entry struct {
	ID    string `json:"id"`
	Total int    `json:"total"`
}

func TestJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := &mapStore{data: map[string][]byte{}}

	require.NoError(t, cache.SetJSON(ctx, store, "orders:1", entry{ID: "1", Total: 3}, time.Minute))
	got, err := cache.GetJSON[entry](ctx, store, "orders:1")
	require.NoError(t, err)
	assert.Equal(t, &entry{ID: "1", Total: 3}, got)

	_, err = cache.GetJSON[entry](ctx, store, "orders:2")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
}

func TestGetJSON_Corrupt(t *testing.T) {
	store := &mapStore{data: map[string][]byte{"orders:1": []byte("{")}}
	_, err := cache.GetJSON[entry](context.Background(), store, "orders:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode cached orders:1")
}

func TestNilStore(t *testing.T) {
	_, err := cache.GetJSON[entry](context.Background(), nil, "k")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	assert.NoError(t, cache.SetJSON(context.Background(), nil, "k", entry{}, 0))
}

func TestNewStore(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	store, err := cache.NewStore(lc, config.Config{Cache: config.Cache{Driver: "noop"}}, zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, cache.ErrCacheMiss)
	assert.NoError(t, store.Set(context.Background(), "k", []byte("v"), 0))
	assert.NoError(t, store.Delete(context.Background(), "k"))

	_, err = cache.NewStore(lc, config.Config{Cache: config.Cache{Driver: "memcached"}}, nil)
	assert.EqualError(t, err, "unsupported cache driver: memcached")
}
