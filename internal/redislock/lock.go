// Package redislock serializes the conflict-check-then-write sequence for a
// slot across concurrent requests and instances.
package redislock

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("slot lock not acquired")

// Locker guards the critical section around a booking's slot keys.
type Locker interface {
	WithSlotLocks(ctx context.Context, keys []string, fn func(ctx context.Context) error) error
}

type redisSlotLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSlotLocker(client *redis.Client, ttl time.Duration) Locker {
	return &redisSlotLocker{client: client, ttl: ttl}
}

// ClinicianKey is the lock key for a clinician's slot.
func ClinicianKey(staffID, date, timeSlot string) string {
	return fmt.Sprintf("lock:slot:staff:%s:%s:%s", staffID, date, timeSlot)
}

// RoomKey is the lock key for a room's slot.
func RoomKey(room, date, timeSlot string) string {
	return fmt.Sprintf("lock:slot:room:%s:%s:%s", room, date, timeSlot)
}

// WithSlotLocks acquires every key with SETNX before running fn. Keys are
// acquired in sorted order so two requests locking the same pair cannot
// deadlock. Already-held locks from both requests failing partway are
// bounded by the TTL.
func (l *redisSlotLocker) WithSlotLocks(ctx context.Context, keys []string, fn func(ctx context.Context) error) error {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)

	token := uuid.NewString()
	var held []string
	defer func() {
		for _, key := range held {
			_ = l.release(ctx, key, token)
		}
	}()

	for _, key := range sorted {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire slot lock %s: %w", key, err)
		}
		if !ok {
			return ErrLockNotAcquired
		}
		held = append(held, key)
	}

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisSlotLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release slot lock: %w", err)
	}
	return nil
}
