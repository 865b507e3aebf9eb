package repository

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/lifeos/internal/adapters/cache"
	"github.com/comitanigiacomo/lifeos/internal/core/domain"
)

func TestCachedUserRepository_Integration(t *testing.T) {
	rdb, err := cache.NewRedisClient(context.Background(), envOr("REDIS_HOST", "localhost"), envOr("REDIS_PORT", "6379"), envOr("REDIS_PASSWORD", ""), 2)
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()
	require.NoError(t, rdb.FlushDB(ctx).Err())

	inner := NewInMemoryUserRepository()
	repo := NewCachedUserRepository(inner, rdb, slog.New(slog.NewTextHandler(io.Discard, nil)))

	u, err := domain.NewUser(domain.Identity{Subject: "cached-sub", Email: "cached@example.com"})
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, u))

	t.Run("Success: first read fills the cache", func(t *testing.T) {
		got, err := repo.GetBySubject(ctx, "cached-sub")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)

		exists, err := rdb.Exists(ctx, "users:subject:cached-sub").Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), exists)
	})

	t.Run("Success: corrupted entry falls back to the store", func(t *testing.T) {
		require.NoError(t, rdb.Set(ctx, "users:subject:cached-sub", "{broken", 0).Err())

		got, err := repo.GetBySubject(ctx, "cached-sub")
		require.NoError(t, err)
		assert.Equal(t, u.Email, got.Email)
	})

	t.Run("Error: misses are not cached", func(t *testing.T) {
		_, err := repo.GetBySubject(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		exists, err := rdb.Exists(ctx, "users:subject:ghost").Result()
		require.NoError(t, err)
		assert.Zero(t, exists)
	})
}
