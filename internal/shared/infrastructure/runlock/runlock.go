// Package runlock provides an advisory lock so overlapping trigger surfaces
// (cron endpoint, CLI, worker ticker) don't run the same job concurrently.
// The lock is an optimization only: storage uniqueness constraints remain
// the correctness guarantee when it is skipped or expires.
package runlock

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RunLock is an advisory single-holder lock for named jobs.
type RunLock interface {
	// Acquire tries to take the lock. It returns a release func and true on
	// success, and false when another holder has it.
	Acquire(ctx context.Context, name string, ttl time.Duration) (release func(), acquired bool, err error)
}

// RedisLock implements RunLock with SET NX EX. The value is a per-holder
// token so a slow holder can't release a lock it already lost.
type RedisLock struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisLock creates a Redis-backed run lock.
func NewRedisLock(client *redis.Client, logger *slog.Logger) *RedisLock {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLock{client: client, logger: logger}
}

// releaseScript deletes the key only when it still holds our token.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// Acquire tries to take the lock.
func (l *RedisLock) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	key := "runlock:" + name
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		if err := releaseScript.Run(context.Background(), l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn("failed to release run lock", "name", name, "error", err)
		}
	}
	return release, true, nil
}

// NoopLock always grants the lock. Used when Redis is not configured; the
// storage constraints still keep concurrent runs safe.
type NoopLock struct{}

// NewNoopLock creates a lock that always acquires.
func NewNoopLock() *NoopLock {
	return &NoopLock{}
}

// Acquire always succeeds.
func (l *NoopLock) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	return func() {}, true, nil
}
