package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CheckLoginRateLimit counts failed login attempts per username+IP in
// redis and reports whether the pair is locked out. A nil client
// disables rate limiting entirely, which keeps local development and
// tests redis-free.
func CheckLoginRateLimit(ctx context.Context, rdb *redis.Client, username, ip string, burst int) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := loginRateKey(username, ip)

	count, err := rdb.Get(ctx, key).Int()
	if err != nil && err != redis.Nil {
		return false, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	return count < burst, nil
}

// RecordLoginFailure bumps the failure counter, starting the lockout
// window on the first failure.
func RecordLoginFailure(ctx context.Context, rdb *redis.Client, username, ip string, window time.Duration) error {
	if rdb == nil {
		return nil
	}

	key := loginRateKey(username, ip)

	pipe := rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record login failure in redis: %w", err)
	}

	return nil
}

// ClearLoginRateLimit drops the counter after a successful login.
func ClearLoginRateLimit(ctx context.Context, rdb *redis.Client, username, ip string) error {
	if rdb == nil {
		return nil
	}
	_, err := rdb.Del(ctx, loginRateKey(username, ip)).Result()
	return err
}

func loginRateKey(username, ip string) string {
	return fmt.Sprintf("rate_limit:login:%s:%s", username, ip)
}
