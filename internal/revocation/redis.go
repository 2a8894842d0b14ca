package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked:jti:"

type RedisRegistry struct {
	Client redis.Cmdable
}

func NewRedisRegistry(client redis.Cmdable) *RedisRegistry {
	return &RedisRegistry{Client: client}
}

func (r *RedisRegistry) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.Client.Set(ctx, keyPrefix+tokenID, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke %s: %w", tokenID, err)
	}
	return nil
}

func (r *RedisRegistry) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.Client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", tokenID, err)
	}
	return n > 0, nil
}

func (r *RedisRegistry) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}
