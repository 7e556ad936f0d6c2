package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// Redis guards keys across every process sharing one Redis instance.
type Redis struct {
	client *redis.Client
	locker *redislock.Client
}

// NewRedis connects and pings before returning.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect redis at %s: %w", opts.Addr, err)
	}
	return &Redis{client: client, locker: redislock.New(client)}, nil
}

func (r *Redis) Obtain(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	l, err := r.locker.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrNotObtained
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}
	return &redisLease{lock: l}, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

type redisLease struct {
	lock *redislock.Lock
}

func (rl *redisLease) Refresh(ctx context.Context, ttl time.Duration) error {
	err := rl.lock.Refresh(ctx, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return ErrNotObtained
	}
	if err != nil {
		return fmt.Errorf("failed to refresh lock %s: %w", rl.lock.Key(), err)
	}
	return nil
}

func (rl *redisLease) Release(ctx context.Context) error {
	// An expired lease has nothing left to release.
	if err := rl.lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
		return err
	}
	return nil
}
