package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRevocationList(t *testing.T) {
	mr, client := setupTestRedis(t)
	list := NewRedisRevocationList(client)
	ctx := context.Background()

	revoked, err := list.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "abc", time.Hour))
	assert.True(t, mr.Exists("session:revoked:abc"))

	revoked, err = list.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.IsRevoked(ctx, "other")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationExpires(t *testing.T) {
	mr, client := setupTestRedis(t)
	list := NewRedisRevocationList(client)
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "abc", time.Minute))
	mr.FastForward(2 * time.Minute)

	revoked, err := list.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevocationRedisDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	list := NewRedisRevocationList(client)
	mr.Close()

	_, err := list.IsRevoked(context.Background(), "abc")
	assert.Error(t, err)
}
