package redis

// Package redis provides Redis-based adapters for the clinic-ops system.

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/dentara/clinic-ops/internal/domain/auth"
)

// RoleCache is a Redis-backed TTL cache for resolved user roles, keyed by a
// hash of the presented bearer token so raw tokens never land in Redis.
type RoleCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRoleCache creates a new Redis-based role cache.
func NewRoleCache(client redis.UniversalClient, ttl time.Duration) *RoleCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RoleCache{
		client: client,
		prefix: "authrole:",
		ttl:    ttl,
	}
}

// Key derives the cache key for a bearer token.
func Key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached role for a bearer token, or found=false on a miss.
func (c *RoleCache) Get(ctx context.Context, token string) (domainauth.Role, bool, error) {
	if token == "" {
		return "", false, nil
	}

	val, err := c.client.Get(ctx, c.prefix+Key(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return domainauth.Role(val), true, nil
}

// Set stores the resolved role for a bearer token with the configured TTL.
func (c *RoleCache) Set(ctx context.Context, token string, role domainauth.Role) error {
	if token == "" {
		return errors.New("cache token cannot be empty")
	}
	return c.client.Set(ctx, c.prefix+Key(token), string(role), c.ttl).Err()
}
