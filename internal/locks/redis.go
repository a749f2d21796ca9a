package locks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/terraincognita07/flowy/internal/logger"
)

const (
	defaultLockTTL     = 10 * time.Second
	defaultWaitTimeout = 5 * time.Second
	defaultRetryDelay  = 25 * time.Millisecond
	keyPrefix          = "flowy:lock:user:"
)

var ErrLockTimeout = errors.New("timed out waiting for user lock")

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisUserLocker serializes accrual work per user across processes.
type RedisUserLocker struct {
	client      redis.UniversalClient
	ttl         time.Duration
	waitTimeout time.Duration
	retryDelay  time.Duration
}

type RedisOption func(*RedisUserLocker)

func WithTTL(ttl time.Duration) RedisOption {
	return func(locker *RedisUserLocker) {
		if ttl > 0 {
			locker.ttl = ttl
		}
	}
}

func WithWaitTimeout(timeout time.Duration) RedisOption {
	return func(locker *RedisUserLocker) {
		if timeout > 0 {
			locker.waitTimeout = timeout
		}
	}
}

func NewRedisUserLocker(client redis.UniversalClient, options ...RedisOption) *RedisUserLocker {
	locker := &RedisUserLocker{
		client:      client,
		ttl:         defaultLockTTL,
		waitTimeout: defaultWaitTimeout,
		retryDelay:  defaultRetryDelay,
	}
	for _, option := range options {
		option(locker)
	}
	return locker
}

// DialRedis parses a redis:// URL and verifies the server answers.
func DialRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	options, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(options)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (locker *RedisUserLocker) Lock(userID string) (func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), locker.waitTimeout)
	defer cancel()

	key := keyPrefix + userID
	token := uuid.NewString()

	for {
		acquired, err := locker.client.SetNX(ctx, key, token, locker.ttl).Result()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return nil, ErrLockTimeout
			}
			return nil, fmt.Errorf("acquire user lock: %w", err)
		}
		if acquired {
			return locker.releaser(key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, ErrLockTimeout
		case <-time.After(locker.retryDelay):
		}
	}
}

func (locker *RedisUserLocker) releaser(key string, token string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), locker.waitTimeout)
		defer cancel()

		if err := releaseScript.Run(ctx, locker.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			logger.Log.WithError(err).WithField("lock_key", key).Warn("release user lock failed")
		}
	}
}
