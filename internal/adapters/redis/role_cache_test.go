package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/dentara/clinic-ops/internal/domain/auth"
	"github.com/dentara/clinic-ops/internal/testutil"
)

func TestRoleCache_SetAndGet(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	t.Cleanup(func() { _ = client.Close() })

	cache := NewRoleCache(client, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "token-1", domainauth.RoleAdmin))

	role, found, err := cache.Get(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, domainauth.RoleAdmin, role)
}

func TestRoleCache_MissIsNotAnError(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	t.Cleanup(func() { _ = client.Close() })

	cache := NewRoleCache(client, time.Minute)

	_, found, err := cache.Get(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRoleCache_RawTokenNeverStored(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	t.Cleanup(func() { _ = client.Close() })

	cache := NewRoleCache(client, time.Minute)
	ctx := context.Background()

	const token = "very-secret-bearer-token"
	require.NoError(t, cache.Set(ctx, token, domainauth.RoleStaff))

	keys, err := client.Keys(ctx, "*").Result()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.NotContains(t, keys[0], token)
	assert.Contains(t, keys[0], Key(token))
}

func TestKeyIsDeterministic(t *testing.T) {
	assert.Equal(t, Key("abc"), Key("abc"))
	assert.NotEqual(t, Key("abc"), Key("abd"))
	assert.Len(t, Key("abc"), 64)
}
