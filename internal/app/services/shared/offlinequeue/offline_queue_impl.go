package offlinequeue

import (
	"context"
	"sort"
	"sync"
	"time"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type offlineQueue struct {
	mu      sync.Mutex
	store   contracts.OfflineStore
	pending []models.OfflineAction
	now     func() time.Time
	Log     *zap.Logger
}

func NewOfflineQueue(store contracts.OfflineStore, logger *zap.Logger) contracts.OfflineQueue {
	return &offlineQueue{
		store: store,
		now:   time.Now,
		Log:   logger,
	}
}

// Load replaces the in-memory pending list with what the store holds.
func (q *offlineQueue) Load(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	var actions []models.OfflineAction
	err := utils.RetryWithBackoff(ctx, utils.DefaultRetryAttempts, utils.DefaultRetryBaseDelay, func() error {
		var err error
		actions, err = q.store.ListActions(ctx)
		return err
	})
	if err != nil {
		q.Log.Error("offlineQueue.Load error listing stored actions",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
		return err
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Sequence < actions[j].Sequence
	})
	q.pending = actions

	q.Log.Info("offlineQueue.Load succeeded",
		zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
		zap.Int(constvars.LoggingPendingCountKey, len(actions)),
	)
	return nil
}

// Enqueue stores the action and appends it to the pending list. A client retrying an
// action that is still pending gets the stored copy back instead of a second entry.
func (q *offlineQueue) Enqueue(ctx context.Context, action *models.OfflineAction) bool {
	requestID := utils.GetRequestID(ctx)

	q.mu.Lock()
	defer q.mu.Unlock()

	if action.ID == "" {
		action.ID = uuid.NewString()
	} else if index := q.indexOf(action.OwnerID, action.ID); index >= 0 {
		*action = q.pending[index]
		q.Log.Info("offlineQueue.Enqueue action already pending",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingActionIDKey, action.ID),
			zap.String(constvars.LoggingUserIDKey, action.OwnerID),
		)
		return true
	}
	if action.Timestamp.IsZero() {
		action.Timestamp = q.now().UTC()
	}

	sequence, err := q.store.NextSequence(ctx)
	if err != nil {
		q.Log.Error("offlineQueue.Enqueue error allocating sequence",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingActionIDKey, action.ID),
			zap.Error(err),
		)
		return false
	}
	action.Sequence = sequence

	err = utils.RetryWithBackoff(ctx, utils.DefaultRetryAttempts, utils.DefaultRetryBaseDelay, func() error {
		return q.store.PutAction(ctx, action)
	})
	if err != nil {
		q.Log.Error("offlineQueue.Enqueue error storing action",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingActionIDKey, action.ID),
			zap.Error(err),
		)
		return false
	}

	q.pending = append(q.pending, *action)
	q.Log.Info("offlineQueue.Enqueue succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingActionIDKey, action.ID),
		zap.String(constvars.LoggingActionTypeKey, action.Type),
		zap.String(constvars.LoggingUserIDKey, action.OwnerID),
		zap.Int(constvars.LoggingPendingCountKey, len(q.pending)),
	)
	return true
}

func (q *offlineQueue) List() []models.OfflineAction {
	q.mu.Lock()
	defer q.mu.Unlock()

	actions := make([]models.OfflineAction, len(q.pending))
	copy(actions, q.pending)
	return actions
}

// ListFor returns one owner's pending actions in capture order.
func (q *offlineQueue) ListFor(ownerID string) []models.OfflineAction {
	q.mu.Lock()
	defer q.mu.Unlock()

	var actions []models.OfflineAction
	for _, action := range q.pending {
		if action.OwnerID == ownerID {
			actions = append(actions, action)
		}
	}
	return actions
}

// Remove deletes an action from the store and the pending list. An id not pending for
// ownerID is a no-op, even when another owner has an action with that id.
func (q *offlineQueue) Remove(ctx context.Context, ownerID, actionID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	index := q.indexOf(ownerID, actionID)
	if index < 0 {
		return nil
	}

	err := utils.RetryWithBackoff(ctx, utils.DefaultRetryAttempts, utils.DefaultRetryBaseDelay, func() error {
		return q.store.DeleteAction(ctx, ownerID, actionID)
	})
	if err != nil {
		q.Log.Error("offlineQueue.Remove error deleting stored action",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingActionIDKey, actionID),
			zap.String(constvars.LoggingUserIDKey, ownerID),
			zap.Error(err),
		)
		return err
	}

	q.pending = append(q.pending[:index], q.pending[index+1:]...)
	return nil
}

// indexOf must be called with q.mu held.
func (q *offlineQueue) indexOf(ownerID, actionID string) int {
	for i := range q.pending {
		if q.pending[i].OwnerID == ownerID && q.pending[i].ID == actionID {
			return i
		}
	}
	return -1
}

func (q *offlineQueue) CacheValue(ctx context.Context, ownerID, key string, value json.RawMessage, ttlMinutes int) error {
	entry := &models.CacheEntry{
		Value:     value,
		ExpiresAt: q.now().UTC().Add(time.Duration(ttlMinutes) * time.Minute),
	}
	err := q.store.PutCacheEntry(ctx, ownerID, key, entry)
	if err != nil {
		q.Log.Error("offlineQueue.CacheValue error",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingCacheKey, key),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// GetCachedValue never purges. An expired entry stays in the store and is reported absent.
func (q *offlineQueue) GetCachedValue(ctx context.Context, ownerID, key string) (json.RawMessage, bool, error) {
	entry, err := q.store.GetCacheEntry(ctx, ownerID, key)
	if err != nil {
		q.Log.Error("offlineQueue.GetCachedValue error",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingCacheKey, key),
			zap.Error(err),
		)
		return nil, false, err
	}
	if entry == nil || entry.ExpiredAt(q.now()) {
		return nil, false, nil
	}
	return entry.Value, true, nil
}
