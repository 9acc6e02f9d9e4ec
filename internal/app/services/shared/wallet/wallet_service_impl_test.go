package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testQueue = "wallet.credit"

var errBrokerDown = errors.New("broker down")

type memoryRedis struct {
	mu        sync.Mutex
	values    map[string]string
	lists     map[string][]string
	pushErr   error
	deleteErr error
}

func newMemoryRedis() *memoryRedis {
	return &memoryRedis{values: map[string]string{}, lists: map[string][]string{}}
}

func (r *memoryRedis) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	delete(r.values, key)
	return nil
}

func (r *memoryRedis) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	body, err := json.Marshal(value)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = string(body)
	return nil
}

func (r *memoryRedis) Get(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[key], nil
}

func (r *memoryRedis) GetMany(ctx context.Context, keys ...string) ([]string, error) {
	var out []string
	for _, key := range keys {
		value, _ := r.Get(ctx, key)
		out = append(out, value)
	}
	return out, nil
}

func (r *memoryRedis) Increment(ctx context.Context, key string) (int64, error) {
	return 0, errors.New("not used")
}

func (r *memoryRedis) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return 0, errors.New("not used")
}

func (r *memoryRedis) PushToList(ctx context.Context, key string, values ...interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pushErr != nil {
		return r.pushErr
	}
	for _, value := range values {
		r.lists[key] = append(r.lists[key], value.(string))
	}
	return nil
}

func (r *memoryRedis) PopFromList(ctx context.Context, key string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := r.lists[key]
	if len(list) == 0 {
		return "", nil
	}
	r.lists[key] = list[1:]
	return list[0], nil
}

func (r *memoryRedis) AddToSortedSet(ctx context.Context, key string, score float64, member string) error {
	return errors.New("not used")
}

func (r *memoryRedis) RangeSortedSet(ctx context.Context, key string) ([]string, error) {
	return nil, errors.New("not used")
}

func (r *memoryRedis) RemoveFromSortedSet(ctx context.Context, key string, members ...string) error {
	return errors.New("not used")
}

func (r *memoryRedis) TrySetNX(ctx context.Context, key string, value interface{}, exp time.Duration) (bool, error) {
	r.mu.Lock()
	_, exists := r.values[key]
	r.mu.Unlock()
	if exists {
		return false, nil
	}
	return true, r.Set(ctx, key, value, exp)
}

func (r *memoryRedis) parked() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lists[constvars.RedisKeyWalletCreditFailed])
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []*models.WalletCredit
	fail      bool
}

func (p *recordingPublisher) Publish(ctx context.Context, queueName string, message interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errBrokerDown
	}
	p.published = append(p.published, message.(*models.WalletCredit))
	return nil
}

func credit(reference string) *models.WalletCredit {
	return &models.WalletCredit{
		UserID:      "provider-1",
		Amount:      decimal.RequireFromString("120.00"),
		Currency:    "ZMW",
		ReferenceID: reference,
		CreatedAt:   time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestWalletService_CreditWallet(t *testing.T) {
	t.Run("Publishes once per reference", func(t *testing.T) {
		publisher := &recordingPublisher{}
		service := NewWalletService(publisher, newMemoryRedis(), testQueue, zap.NewNop())

		require.NoError(t, service.CreditWallet(context.Background(), credit("pay-1")))
		require.NoError(t, service.CreditWallet(context.Background(), credit("pay-1")))
		require.NoError(t, service.CreditWallet(context.Background(), credit("pay-2")))

		require.Len(t, publisher.published, 2)
		assert.Equal(t, "pay-1", publisher.published[0].ReferenceID)
		assert.Equal(t, "pay-2", publisher.published[1].ReferenceID)
	})

	t.Run("Failed publish is parked and replayed", func(t *testing.T) {
		publisher := &recordingPublisher{fail: true}
		redis := newMemoryRedis()
		service := NewWalletService(publisher, redis, testQueue, zap.NewNop())

		err := service.CreditWallet(context.Background(), credit("pay-1"))
		assert.ErrorIs(t, err, errBrokerDown)
		assert.Equal(t, 1, redis.parked())

		published, err := service.RetryFailed(context.Background())
		assert.ErrorIs(t, err, errBrokerDown)
		assert.Zero(t, published)
		assert.Equal(t, 1, redis.parked(), "credit goes back when the broker is still down")

		publisher.fail = false
		published, err = service.RetryFailed(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, published)
		assert.Zero(t, redis.parked())
		require.Len(t, publisher.published, 1)
		assert.True(t, decimal.RequireFromString("120").Equal(publisher.published[0].Amount))
	})

	t.Run("Unreadable parked entries are dropped", func(t *testing.T) {
		publisher := &recordingPublisher{}
		redis := newMemoryRedis()
		require.NoError(t, redis.PushToList(context.Background(), constvars.RedisKeyWalletCreditFailed, "{not json"))
		service := NewWalletService(publisher, redis, testQueue, zap.NewNop())

		published, err := service.RetryFailed(context.Background())
		require.NoError(t, err)
		assert.Zero(t, published)
		assert.Zero(t, redis.parked())
	})

	t.Run("Unparked credit frees its dedup key", func(t *testing.T) {
		publisher := &recordingPublisher{fail: true}
		redis := newMemoryRedis()
		redis.pushErr = errors.New("list unavailable")
		service := NewWalletService(publisher, redis, testQueue, zap.NewNop())

		err := service.CreditWallet(context.Background(), credit("pay-1"))
		assert.ErrorIs(t, err, errBrokerDown)
		assert.Zero(t, redis.parked())

		publisher.fail = false
		require.NoError(t, service.CreditWallet(context.Background(), credit("pay-1")))
		assert.Len(t, publisher.published, 1, "a later attempt publishes again")
	})

	t.Run("Failed dedup release is logged", func(t *testing.T) {
		core, logs := observer.New(zapcore.ErrorLevel)
		publisher := &recordingPublisher{fail: true}
		redis := newMemoryRedis()
		redis.pushErr = errors.New("list unavailable")
		redis.deleteErr = errors.New("delete refused")
		service := NewWalletService(publisher, redis, testQueue, zap.New(core))

		err := service.CreditWallet(context.Background(), credit("pay-1"))
		assert.ErrorIs(t, err, errBrokerDown)

		entries := logs.FilterMessageSnippet("redisRepo.Delete").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "pay-1", entries[0].ContextMap()[constvars.LoggingPaymentIDKey])
		assert.Equal(t, "delete refused", entries[0].ContextMap()["error"])
	})
}
