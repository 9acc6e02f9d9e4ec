package offlinesync

import (
	"context"
	"errors"
	"sync"
	"time"

	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
)

var errStoreDown = errors.New("store down")

type memoryQueue struct {
	mu         sync.Mutex
	actions    []models.OfflineAction
	cache      map[string]json.RawMessage
	enqueueErr bool
	removeErr  error
}

func newMemoryQueue(actions ...models.OfflineAction) *memoryQueue {
	return &memoryQueue{actions: actions, cache: map[string]json.RawMessage{}}
}

func (q *memoryQueue) Enqueue(ctx context.Context, action *models.OfflineAction) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.enqueueErr {
		return false
	}
	if action.ID == "" {
		action.ID = "generated"
	}
	for _, pending := range q.actions {
		if pending.OwnerID == action.OwnerID && pending.ID == action.ID {
			return true
		}
	}
	if action.Timestamp.IsZero() {
		action.Timestamp = time.Now().UTC()
	}
	q.actions = append(q.actions, *action)
	return true
}

func (q *memoryQueue) List() []models.OfflineAction {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]models.OfflineAction(nil), q.actions...)
}

func (q *memoryQueue) ListFor(ownerID string) []models.OfflineAction {
	var actions []models.OfflineAction
	for _, action := range q.List() {
		if action.OwnerID == ownerID {
			actions = append(actions, action)
		}
	}
	return actions
}

func (q *memoryQueue) Remove(ctx context.Context, ownerID, actionID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.removeErr != nil {
		return q.removeErr
	}
	for i, action := range q.actions {
		if action.OwnerID == ownerID && action.ID == actionID {
			q.actions = append(q.actions[:i], q.actions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (q *memoryQueue) Load(ctx context.Context) error { return nil }

func (q *memoryQueue) CacheValue(ctx context.Context, ownerID, key string, value json.RawMessage, ttlMinutes int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cache[ownerID+"/"+key] = value
	return nil
}

func (q *memoryQueue) GetCachedValue(ctx context.Context, ownerID, key string) (json.RawMessage, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	value, ok := q.cache[ownerID+"/"+key]
	return value, ok, nil
}

func (q *memoryQueue) ids() []string {
	var ids []string
	for _, action := range q.List() {
		ids = append(ids, action.ID)
	}
	return ids
}

type recordingDeadLetters struct {
	mu       sync.Mutex
	messages []interface{}
	err      error
}

func (d *recordingDeadLetters) PublishDeadLetter(ctx context.Context, message interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, message)
	return d.err
}

func (d *recordingDeadLetters) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.messages)
}

const testOwner = "patient-1"

func action(id, actionType string) models.OfflineAction {
	return ownedAction(testOwner, id, actionType)
}

func ownedAction(ownerID, id, actionType string) models.OfflineAction {
	return models.OfflineAction{ID: id, OwnerID: ownerID, Type: actionType, Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func userContext(userID string, roles ...string) context.Context {
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_UID_KEY, userID)
	return context.WithValue(ctx, constvars.CONTEXT_ROLES_KEY, roles)
}
