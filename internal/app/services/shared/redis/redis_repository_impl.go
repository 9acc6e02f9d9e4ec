package redis

import (
	"context"
	"time"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

type redisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) contracts.RedisRepository {
	return &redisRepository{client: client}
}

func (r *redisRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		return exceptions.ErrRedisDelete(err)
	}
	return nil
}

func (r *redisRepository) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	err = r.client.Set(ctx, key, jsonValue, exp).Err()
	if err != nil {
		return exceptions.ErrRedisSet(err)
	}
	return nil
}

func (r *redisRepository) Get(ctx context.Context, key string) (string, error) {
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	} else if err != nil {
		return "", exceptions.ErrRedisGet(err)
	}
	return data, nil
}

// GetMany returns one entry per key, empty where the key is absent.
func (r *redisRepository) GetMany(ctx context.Context, keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, exceptions.ErrRedisGet(err)
	}

	result := make([]string, len(values))
	for i, value := range values {
		if s, ok := value.(string); ok {
			result[i] = s
		}
	}
	return result, nil
}

func (r *redisRepository) Increment(ctx context.Context, key string) (int64, error) {
	value, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, exceptions.ErrRedisIncrement(err)
	}
	return value, nil
}

func (r *redisRepository) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, exceptions.ErrRedisIncrement(err)
	}
	return incr.Val(), nil
}

func (r *redisRepository) PushToList(ctx context.Context, key string, values ...interface{}) error {
	err := r.client.RPush(ctx, key, values...).Err()
	if err != nil {
		return exceptions.ErrRedisPushToList(err)
	}
	return nil
}

// PopFromList returns an empty string once the list is drained.
func (r *redisRepository) PopFromList(ctx context.Context, key string) (string, error) {
	value, err := r.client.LPop(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	} else if err != nil {
		return "", exceptions.ErrRedisPopFromList(err)
	}
	return value, nil
}

func (r *redisRepository) AddToSortedSet(ctx context.Context, key string, score float64, member string) error {
	err := r.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
	if err != nil {
		return exceptions.ErrRedisSortedSet(err)
	}
	return nil
}

func (r *redisRepository) RangeSortedSet(ctx context.Context, key string) ([]string, error) {
	members, err := r.client.ZRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, exceptions.ErrRedisSortedSet(err)
	}
	return members, nil
}

func (r *redisRepository) RemoveFromSortedSet(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, len(members))
	for i, member := range members {
		args[i] = member
	}
	err := r.client.ZRem(ctx, key, args...).Err()
	if err != nil {
		return exceptions.ErrRedisSortedSet(err)
	}
	return nil
}

func (r *redisRepository) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return false, exceptions.ErrCannotMarshalJSON(err)
	}

	acquired, err := r.client.SetNX(ctx, key, jsonValue, exp).Result()
	if err != nil {
		return false, exceptions.ErrRedisSet(err)
	}
	return acquired, nil
}
