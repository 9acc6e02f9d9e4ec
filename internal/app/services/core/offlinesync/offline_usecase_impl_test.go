package offlinesync

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestOfflineUsecase(queue *memoryQueue) (contracts.OfflineUsecase, *SyncCoordinator) {
	coordinator := newTestCoordinator(queue, &recordingDeadLetters{})
	return NewOfflineUsecase(queue, coordinator, zap.NewNop()), coordinator
}

func TestOfflineUsecase_EnqueueAction(t *testing.T) {
	ctx := userContext(testOwner, constvars.DocOClockRolePatient)

	t.Run("Valid action is queued under the signed-in user", func(t *testing.T) {
		queue := newMemoryQueue()
		usecase, _ := newTestOfflineUsecase(queue)
		capturedAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.FixedZone("WAT", 3600))

		result, err := usecase.EnqueueAction(ctx, &requests.EnqueueOfflineAction{
			ID:        "act-1",
			Type:      models.ActionTypeUpdateAppointmentStatus,
			TargetID:  "apt-1",
			Data:      json.RawMessage(`{"status":"cancelled"}`),
			Timestamp: &capturedAt,
		})
		require.NoError(t, err)
		assert.True(t, result.Queued)
		assert.Equal(t, "act-1", result.Action.ID)
		assert.Equal(t, capturedAt.UTC(), result.Action.Timestamp)
		assert.Equal(t, []string{"act-1"}, queue.ids())
		assert.Equal(t, testOwner, queue.List()[0].OwnerID)
	})

	t.Run("Retried action is queued once", func(t *testing.T) {
		queue := newMemoryQueue()
		usecase, _ := newTestOfflineUsecase(queue)
		request := &requests.EnqueueOfflineAction{
			ID:   "act-1",
			Type: models.ActionTypeSendMessage,
			Data: json.RawMessage(`{"recipient_id":"doctor-1","content":"hi"}`),
		}

		for i := 0; i < 2; i++ {
			result, err := usecase.EnqueueAction(ctx, request)
			require.NoError(t, err)
			assert.True(t, result.Queued)
		}
		assert.Equal(t, []string{"act-1"}, queue.ids())
	})

	t.Run("Malformed payload for a known type is rejected", func(t *testing.T) {
		queue := newMemoryQueue()
		usecase, _ := newTestOfflineUsecase(queue)

		_, err := usecase.EnqueueAction(ctx, &requests.EnqueueOfflineAction{
			Type: models.ActionTypeSendMessage,
			Data: json.RawMessage(`{"sender_id":"patient-1"}`),
		})
		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusBadRequest, customErr.StatusCode)
		assert.Empty(t, queue.List())
	})

	t.Run("Message sent as someone else is refused", func(t *testing.T) {
		queue := newMemoryQueue()
		usecase, _ := newTestOfflineUsecase(queue)

		_, err := usecase.EnqueueAction(ctx, &requests.EnqueueOfflineAction{
			Type: models.ActionTypeSendMessage,
			Data: json.RawMessage(`{"sender_id":"patient-2","recipient_id":"doctor-1","content":"hi"}`),
		})
		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusForbidden, customErr.StatusCode)
		assert.Empty(t, queue.List())
	})

	t.Run("Request without a user is refused", func(t *testing.T) {
		queue := newMemoryQueue()
		usecase, _ := newTestOfflineUsecase(queue)

		_, err := usecase.EnqueueAction(context.Background(), &requests.EnqueueOfflineAction{
			Type: "CUSTOM",
			Data: json.RawMessage(`{}`),
		})
		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, http.StatusUnauthorized, customErr.StatusCode)
		assert.Empty(t, queue.List())
	})

	t.Run("Storage failure is reported through Queued", func(t *testing.T) {
		queue := newMemoryQueue()
		queue.enqueueErr = true
		usecase, _ := newTestOfflineUsecase(queue)

		result, err := usecase.EnqueueAction(ctx, &requests.EnqueueOfflineAction{
			Type: "CUSTOM",
			Data: json.RawMessage(`{}`),
		})
		require.NoError(t, err)
		assert.False(t, result.Queued)
	})
}

func TestOfflineUsecase_SyncNow(t *testing.T) {
	t.Run("Replays only the caller's actions", func(t *testing.T) {
		queue := newMemoryQueue(action("a-1", testActionType), ownedAction("patient-2", "a-2", testActionType))
		usecase, coordinator := newTestOfflineUsecase(queue)
		coordinator.Register(testActionType, contracts.ActionHandlerFunc(func(ctx context.Context, action models.OfflineAction) error {
			return nil
		}))

		report, err := usecase.SyncNow(userContext(testOwner, constvars.DocOClockRolePatient))
		require.NoError(t, err)
		assert.Equal(t, []string{"a-1"}, report.Succeeded)
		assert.Equal(t, []string{"a-2"}, queue.ids())
	})

	t.Run("Admin replays everyone's actions", func(t *testing.T) {
		queue := newMemoryQueue(action("a-1", testActionType), ownedAction("patient-2", "a-2", "NOBODY_HANDLES_THIS"))
		usecase, coordinator := newTestOfflineUsecase(queue)
		coordinator.Register(testActionType, contracts.ActionHandlerFunc(func(ctx context.Context, action models.OfflineAction) error {
			return nil
		}))

		report, err := usecase.SyncNow(userContext("admin-1", constvars.DocOClockRoleAdmin))
		require.NoError(t, err)
		assert.Equal(t, []string{"a-1"}, report.Succeeded)
		assert.Equal(t, []string{"a-2"}, report.Skipped)
		assert.NotNil(t, report.Failed)
		assert.Empty(t, queue.List())
	})
}

func TestOfflineUsecase_RemoveAction(t *testing.T) {
	ctx := userContext(testOwner, constvars.DocOClockRolePatient)

	t.Run("Removes a queued action", func(t *testing.T) {
		queue := newMemoryQueue(action("a-1", testActionType), action("a-2", testActionType))
		usecase, _ := newTestOfflineUsecase(queue)

		require.NoError(t, usecase.RemoveAction(ctx, "a-1"))
		listed, err := usecase.ListActions(ctx)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "a-2", listed[0].ID)
	})

	t.Run("Another user's action is neither listed nor removed", func(t *testing.T) {
		queue := newMemoryQueue(ownedAction("patient-2", "a-9", testActionType))
		usecase, _ := newTestOfflineUsecase(queue)

		listed, err := usecase.ListActions(ctx)
		require.NoError(t, err)
		assert.Empty(t, listed)

		require.NoError(t, usecase.RemoveAction(ctx, "a-9"))
		assert.Equal(t, []string{"a-9"}, queue.ids())
	})

	t.Run("Store error surfaces", func(t *testing.T) {
		queue := newMemoryQueue(action("a-1", testActionType))
		queue.removeErr = errStoreDown
		usecase, _ := newTestOfflineUsecase(queue)

		assert.ErrorIs(t, usecase.RemoveAction(ctx, "a-1"), errStoreDown)
	})
}

func TestOfflineUsecase_Cache(t *testing.T) {
	ctx := userContext(testOwner, constvars.DocOClockRolePatient)
	usecase, _ := newTestOfflineUsecase(newMemoryQueue())

	_, err := usecase.GetCachedValue(ctx, "profile")
	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, http.StatusNotFound, customErr.StatusCode)

	require.NoError(t, usecase.CacheValue(ctx, &requests.CacheValue{
		Key:        "profile",
		Value:      json.RawMessage(`{"name":"Ada"}`),
		TTLMinutes: 5,
	}))
	cached, err := usecase.GetCachedValue(ctx, "profile")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Ada"}`, string(cached.Value))

	_, err = usecase.GetCachedValue(userContext("patient-2", constvars.DocOClockRolePatient), "profile")
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, http.StatusNotFound, customErr.StatusCode, "cache is per user")
}
