package contracts

import (
	"context"

	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/dto/responses"

	"github.com/goccy/go-json"
)

// OfflineStore is the durable keyed store behind the offline queue: one record per owner
// and action id, an index ordered by capture sequence, and a per-owner cache namespace.
type OfflineStore interface {
	NextSequence(ctx context.Context) (int64, error)
	PutAction(ctx context.Context, action *models.OfflineAction) error
	DeleteAction(ctx context.Context, ownerID, actionID string) error
	ListActions(ctx context.Context) ([]models.OfflineAction, error)
	PutCacheEntry(ctx context.Context, ownerID, key string, entry *models.CacheEntry) error
	// GetCacheEntry returns nil, nil when nothing is stored under key.
	GetCacheEntry(ctx context.Context, ownerID, key string) (*models.CacheEntry, error)
}

// OfflineQueue holds every user's pending actions. An action is identified by its owner
// and id together.
type OfflineQueue interface {
	// Enqueue reports false when the action could not be stored. It never panics. An
	// action already pending for the same owner is left as is and reported true.
	Enqueue(ctx context.Context, action *models.OfflineAction) bool
	List() []models.OfflineAction
	ListFor(ownerID string) []models.OfflineAction
	Remove(ctx context.Context, ownerID, actionID string) error
	Load(ctx context.Context) error
	CacheValue(ctx context.Context, ownerID, key string, value json.RawMessage, ttlMinutes int) error
	// GetCachedValue reports false for missing and expired entries alike.
	GetCachedValue(ctx context.Context, ownerID, key string) (json.RawMessage, bool, error)
}

// ActionHandler applies one offline action to the backend. Handlers are replayed after
// partial failures, so they must be idempotent.
type ActionHandler interface {
	Handle(ctx context.Context, action models.OfflineAction) error
}

type ActionHandlerFunc func(ctx context.Context, action models.OfflineAction) error

func (f ActionHandlerFunc) Handle(ctx context.Context, action models.OfflineAction) error {
	return f(ctx, action)
}

type SyncCoordinator interface {
	HandleNetworkEvent(event models.NetworkEvent)
	SyncNow(ctx context.Context) (*models.SyncReport, error)
	// SyncOwner runs a pass over one user's actions only.
	SyncOwner(ctx context.Context, ownerID string) (*models.SyncReport, error)
	State() models.SyncState
	Wait()
}

type OfflineUsecase interface {
	EnqueueAction(ctx context.Context, request *requests.EnqueueOfflineAction) (*responses.EnqueueOfflineAction, error)
	ListActions(ctx context.Context) ([]responses.OfflineAction, error)
	RemoveAction(ctx context.Context, actionID string) error
	SyncNow(ctx context.Context) (*responses.SyncReport, error)
	CacheValue(ctx context.Context, request *requests.CacheValue) error
	GetCachedValue(ctx context.Context, key string) (*responses.CachedValue, error)
}
