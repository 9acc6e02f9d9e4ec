package contracts

import (
	"context"
	"time"
)

type RedisRepository interface {
	Delete(ctx context.Context, key string) error
	Set(ctx context.Context, key string, value interface{}, exp time.Duration) error
	// Get returns an empty string and no error when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	GetMany(ctx context.Context, keys ...string) ([]string, error)
	Increment(ctx context.Context, key string) (int64, error)
	// IncrementWithTTL increments key and sets its expiry in one round trip.
	IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	PushToList(ctx context.Context, key string, values ...interface{}) error
	PopFromList(ctx context.Context, key string) (string, error)
	AddToSortedSet(ctx context.Context, key string, score float64, member string) error
	RangeSortedSet(ctx context.Context, key string) ([]string, error)
	RemoveFromSortedSet(ctx context.Context, key string, members ...string) error
	TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error)
}
