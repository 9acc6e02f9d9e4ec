package offlinequeue

import (
	"context"
	"fmt"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
)

type redisOfflineStore struct {
	redisRepo contracts.RedisRepository
}

// NewRedisOfflineStore keeps each action as a JSON record under a key namespaced by its
// owner. One sorted set scored by capture sequence indexes every owner's records by key.
func NewRedisOfflineStore(redisRepo contracts.RedisRepository) contracts.OfflineStore {
	return &redisOfflineStore{redisRepo: redisRepo}
}

func (s *redisOfflineStore) NextSequence(ctx context.Context) (int64, error) {
	return s.redisRepo.Increment(ctx, constvars.RedisKeyOfflineActionSequence)
}

func (s *redisOfflineStore) PutAction(ctx context.Context, action *models.OfflineAction) error {
	key := actionKey(action.OwnerID, action.ID)
	err := s.redisRepo.Set(ctx, key, action, 0)
	if err != nil {
		return err
	}
	return s.redisRepo.AddToSortedSet(ctx, constvars.RedisKeyOfflineActionIndex, float64(action.Sequence), key)
}

func (s *redisOfflineStore) DeleteAction(ctx context.Context, ownerID, actionID string) error {
	key := actionKey(ownerID, actionID)
	err := s.redisRepo.RemoveFromSortedSet(ctx, constvars.RedisKeyOfflineActionIndex, key)
	if err != nil {
		return err
	}
	return s.redisRepo.Delete(ctx, key)
}

// ListActions returns actions in capture order. Index entries whose record is gone are
// skipped.
func (s *redisOfflineStore) ListActions(ctx context.Context) ([]models.OfflineAction, error) {
	keys, err := s.redisRepo.RangeSortedSet(ctx, constvars.RedisKeyOfflineActionIndex)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	records, err := s.redisRepo.GetMany(ctx, keys...)
	if err != nil {
		return nil, err
	}

	actions := make([]models.OfflineAction, 0, len(records))
	for _, record := range records {
		if record == "" {
			continue
		}
		var action models.OfflineAction
		if err := json.Unmarshal([]byte(record), &action); err != nil {
			return nil, exceptions.ErrCannotParseJSON(err)
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func (s *redisOfflineStore) PutCacheEntry(ctx context.Context, ownerID, key string, entry *models.CacheEntry) error {
	return s.redisRepo.Set(ctx, cacheKey(ownerID, key), entry, 0)
}

func (s *redisOfflineStore) GetCacheEntry(ctx context.Context, ownerID, key string) (*models.CacheEntry, error) {
	record, err := s.redisRepo.Get(ctx, cacheKey(ownerID, key))
	if err != nil {
		return nil, err
	}
	if record == "" {
		return nil, nil
	}

	entry := new(models.CacheEntry)
	if err := json.Unmarshal([]byte(record), entry); err != nil {
		return nil, exceptions.ErrCannotParseJSON(err)
	}
	return entry, nil
}

func actionKey(ownerID, actionID string) string {
	return fmt.Sprintf(constvars.RedisKeyOfflineActionFormat, ownerID, actionID)
}

func cacheKey(ownerID, key string) string {
	return fmt.Sprintf(constvars.RedisKeyOfflineCacheFormat, ownerID, key)
}
