package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RevokeToken blacklists a token hash until the token would have expired anyway.
func RevokeToken(ctx context.Context, client *redis.Client, tokenHash string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := client.Set(ctx, AuthCachePrefix+tokenHash, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsTokenRevoked reports whether the token hash was logged out.
func IsTokenRevoked(ctx context.Context, client *redis.Client, tokenHash string) (bool, error) {
	err := client.Get(ctx, AuthCachePrefix+tokenHash).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return true, nil
}
