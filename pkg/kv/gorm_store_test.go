package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "kv.db")
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&Entry{}))

	store, err := NewGormStore(conn)
	require.NoError(t, err)
	return store
}

func TestGormStoreRoundTrip(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	_, found, err := store.Get(ctx, CartKey())
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, store.Set(ctx, CartKey(), `[{"id":"1"}]`))

	value, found, err := store.Get(ctx, CartKey())
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, `[{"id":"1"}]`, value)
}

func TestGormStoreSetOverwrites(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, ThemeKey(), "dark"))
	require.NoError(t, store.Set(ctx, ThemeKey(), "light"))

	value, found, err := store.Get(ctx, ThemeKey())
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "light", value)
}

func TestGormStoreDel(t *testing.T) {
	store := newSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, OrderKey(), "{}"))
	require.NoError(t, store.Del(ctx, OrderKey()))

	_, found, err := store.Get(ctx, OrderKey())
	require.NoError(t, err)
	require.False(t, found)

	// deleting an absent key is not an error
	require.NoError(t, store.Del(ctx, OrderKey()))
}

func TestGormStorePing(t *testing.T) {
	store := newSQLiteStore(t)
	require.NoError(t, store.Ping(context.Background()))
}

func TestNewGormStoreRequiresConn(t *testing.T) {
	_, err := NewGormStore(nil)
	require.Error(t, err)
}
