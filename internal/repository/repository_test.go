package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moovie-discover/internal/config"
	"gorm.io/driver/sqlite"
)

// 所有实现共享同一组行为测试
func testKeyValueStore(t *testing.T, store KeyValueStore) {
	ctx := context.Background()

	_, err := store.Get(ctx, "movieIds")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "movieIds", []byte("[1,2]")))
	v, err := store.Get(ctx, "movieIds")
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", string(v))

	require.NoError(t, store.Put(ctx, "movieIds", []byte("[3]")))
	v, err = store.Get(ctx, "movieIds")
	require.NoError(t, err)
	assert.Equal(t, "[3]", string(v))

	_, err = store.Get(ctx, "other")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	testKeyValueStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()
	buf := []byte("[1]")
	require.NoError(t, s.Put(context.Background(), "k", buf))
	buf[1] = '9'

	v, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(v))
}

func TestBadgerStore(t *testing.T) {
	s, err := OpenBadgerStore("")
	require.NoError(t, err)
	defer s.Close()

	testKeyValueStore(t, s)
}

func TestKVRepositorySQLite(t *testing.T) {
	db, err := InitDB(sqlite.Open(filepath.Join(t.TempDir(), "kv.db")))
	require.NoError(t, err)

	repo := NewKVRepository(db)
	testKeyValueStore(t, repo)

	require.NoError(t, repo.Delete(context.Background(), "movieIds"))
	_, err = repo.Get(context.Background(), "movieIds")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewStore(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		s, closer, err := NewStore(&config.Config{StoreDriver: "memory"})
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, s)
		assert.NoError(t, closer.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		s, closer, err := NewStore(&config.Config{StoreDriver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "m.db")})
		require.NoError(t, err)
		defer closer.Close()
		assert.IsType(t, &KVRepository{}, s)
	})

	t.Run("badger", func(t *testing.T) {
		s, closer, err := NewStore(&config.Config{StoreDriver: "badger", BadgerDir: t.TempDir()})
		require.NoError(t, err)
		defer closer.Close()
		testKeyValueStore(t, s)
	})

	t.Run("unknown", func(t *testing.T) {
		_, _, err := NewStore(&config.Config{StoreDriver: "redis"})
		assert.Error(t, err)
	})
}
