package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStore_RevokeOnce(t *testing.T) {
	mr := setupMiniredis(t)
	store := NewTokenStore()
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	first, err := store.Revoke(ctx, "jti-1", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	second, err := store.Revoke(ctx, "jti-1", time.Hour)
	require.NoError(t, err)
	assert.False(t, second)

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Hour)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenStore_ConsumeIsSingleUse(t *testing.T) {
	setupMiniredis(t)
	store := NewTokenStore()
	ctx := context.Background()

	ok, err := store.Consume(ctx, "reset-1", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Consume(ctx, "reset-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTokenStore_ReleaseRestoresToken(t *testing.T) {
	setupMiniredis(t)
	store := NewTokenStore()
	ctx := context.Background()

	ok, err := store.Consume(ctx, "reset-2", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Release(ctx, "reset-2"))

	ok, err = store.Consume(ctx, "reset-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
