package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultTTL   = 10 * time.Second
	defaultWait  = 5 * time.Second
	defaultRetry = 25 * time.Millisecond
	keyPrefix    = "lock:"
)

// releaseScript deletes the key only while it still holds our token, so a
// lock that expired and was taken by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// ErrLockLost means the lock expired before it was released.
var ErrLockLost = errors.New("lock: expired before release")

// Redis shares locks across every instance pointed at the same server.
type Redis struct {
	client *redis.Client
	log    *zap.Logger

	ttl   time.Duration
	wait  time.Duration
	retry time.Duration
}

type RedisOption func(*Redis)

// WithTTL bounds how long a crashed holder can block a key.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithWait bounds how long Acquire polls a busy key.
func WithWait(wait time.Duration) RedisOption {
	return func(r *Redis) {
		if wait > 0 {
			r.wait = wait
		}
	}
}

func NewRedis(client *redis.Client, log *zap.Logger, opts ...RedisOption) *Redis {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Redis{
		client: client,
		log:    log,
		ttl:    defaultTTL,
		wait:   defaultWait,
		retry:  defaultRetry,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) Acquire(ctx context.Context, key string) (Release, error) {
	fullKey := keyPrefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(r.wait)

	for {
		acquired, err := r.client.SetNX(ctx, fullKey, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("lock: acquire %s: %w", key, err)
		}
		if acquired {
			r.log.Debug("lock acquired", zap.String("key", fullKey))
			return r.releaser(fullKey, token), nil
		}

		if time.Now().After(deadline) {
			r.log.Info("lock not acquired", zap.String("key", fullKey), zap.Duration("wait", r.wait))
			return nil, ErrNotAcquired
		}

		timer := time.NewTimer(r.retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Redis) releaser(fullKey, token string) Release {
	released := false
	return func(ctx context.Context) error {
		if released {
			return nil
		}
		released = true

		n, err := releaseScript.Run(ctx, r.client, []string{fullKey}, token).Int()
		if err != nil {
			return fmt.Errorf("lock: release %s: %w", fullKey, err)
		}
		if n == 0 {
			return ErrLockLost
		}
		return nil
	}
}
