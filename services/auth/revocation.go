package auth

import (
	"context"
	"time"

	"salonbook/utils"

	"github.com/go-redis/redis/v8"
)

// RedisRevocations keeps logged-out token hashes in the auth redis database.
type RedisRevocations struct {
	Client *redis.Client
}

func (r *RedisRevocations) Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error {
	return utils.RevokeToken(ctx, r.Client, tokenHash, expiresAt)
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	return utils.IsTokenRevoked(ctx, r.Client, tokenHash)
}
