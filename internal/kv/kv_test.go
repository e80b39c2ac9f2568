package kv

import (
	"context"
	"os"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wanderlust-tours/wanderlust/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.KVEntry{}))
	return db
}

func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "tourWishlist", []byte(`[{"id":1}]`)))
	got, err := s.Get(ctx, "tourWishlist")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))

	// Set replaces the previous value entirely
	require.NoError(t, s.Set(ctx, "tourWishlist", []byte(`[]`)))
	got, err = s.Get(ctx, "tourWishlist")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	exerciseStorage(t, m)
	assert.Equal(t, 1, m.Len())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestGormStore(t *testing.T) {
	exerciseStorage(t, NewGormStore(openTestDB(t)))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDRESS")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDRESS not set")
	}

	store, err := NewRedisStore(context.Background(), addr)
	require.NoError(t, err)
	defer store.Close()

	exerciseStorage(t, Scoped(store, "test:"+t.Name()))
}

func TestScopedKeys(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStore()

	a := Scoped(backend, VisitorNamespace("01A"))
	require.NoError(t, a.Set(ctx, "tourWishlist", []byte("1")))

	raw, err := backend.Get(ctx, "visitor:01A:tourWishlist")
	require.NoError(t, err)
	assert.Equal(t, "1", string(raw))

	_, err = Scoped(backend, VisitorNamespace("01B")).Get(ctx, "tourWishlist")
	assert.ErrorIs(t, err, ErrNotFound)
}
