package offlinesync

import (
	"context"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/dto/responses"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type offlineUsecase struct {
	Queue       contracts.OfflineQueue
	Coordinator contracts.SyncCoordinator
	Log         *zap.Logger
}

func NewOfflineUsecase(queue contracts.OfflineQueue, coordinator contracts.SyncCoordinator, logger *zap.Logger) contracts.OfflineUsecase {
	return &offlineUsecase{
		Queue:       queue,
		Coordinator: coordinator,
		Log:         logger,
	}
}

// EnqueueAction rejects payloads that can never be applied; anything else is queued under
// the signed-in user, and a storage failure is reported through Queued rather than as an
// error.
func (uc *offlineUsecase) EnqueueAction(ctx context.Context, request *requests.EnqueueOfflineAction) (*responses.EnqueueOfflineAction, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("offlineUsecase.EnqueueAction called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingActionTypeKey, request.Type),
	)

	ownerID, err := uc.owner(ctx)
	if err != nil {
		return nil, err
	}

	action := &models.OfflineAction{
		ID:       request.ID,
		OwnerID:  ownerID,
		Type:     request.Type,
		Table:    request.Table,
		TargetID: request.TargetID,
		Data:     request.Data,
	}
	if request.Timestamp != nil {
		action.Timestamp = request.Timestamp.UTC()
	}

	payload, err := models.DecodePayload(*action)
	if err != nil {
		uc.Log.Warn("offlineUsecase.EnqueueAction rejected payload",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, exceptions.ErrOfflineActionPayload(err, action.ID)
	}
	if draft, ok := payload.(models.MessageDraft); ok && draft.SenderID != ownerID {
		utils.LogSecurityEvent(uc.Log, "offline_action_impersonation", requestID, "medium",
			zap.String(constvars.LoggingUserIDKey, ownerID),
			zap.String(constvars.LoggingActionTypeKey, action.Type),
			zap.String("sender_id", draft.SenderID),
		)
		return nil, exceptions.ErrOfflineActionNotOwned(action.ID, draft.SenderID, ownerID)
	}

	queued := uc.Queue.Enqueue(ctx, action)
	return &responses.EnqueueOfflineAction{
		Action: toOfflineActionResponse(*action),
		Queued: queued,
	}, nil
}

func (uc *offlineUsecase) ListActions(ctx context.Context) ([]responses.OfflineAction, error) {
	ownerID, err := uc.owner(ctx)
	if err != nil {
		return nil, err
	}

	actions := uc.Queue.ListFor(ownerID)
	result := make([]responses.OfflineAction, 0, len(actions))
	for _, action := range actions {
		result = append(result, toOfflineActionResponse(action))
	}
	return result, nil
}

// RemoveAction only ever touches the caller's own actions. Another user's id is treated
// like an unknown one.
func (uc *offlineUsecase) RemoveAction(ctx context.Context, actionID string) error {
	ownerID, err := uc.owner(ctx)
	if err != nil {
		return err
	}

	err = uc.Queue.Remove(ctx, ownerID, actionID)
	if err != nil {
		uc.Log.Error("offlineUsecase.RemoveAction error",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingActionIDKey, actionID),
			zap.String(constvars.LoggingUserIDKey, ownerID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// SyncNow replays the caller's actions. Admins replay everyone's.
func (uc *offlineUsecase) SyncNow(ctx context.Context) (*responses.SyncReport, error) {
	ownerID, err := uc.owner(ctx)
	if err != nil {
		return nil, err
	}

	var report *models.SyncReport
	if utils.HasRole(ctx, constvars.DocOClockRoleAdmin) {
		report, err = uc.Coordinator.SyncNow(ctx)
	} else {
		report, err = uc.Coordinator.SyncOwner(ctx, ownerID)
	}
	if err != nil {
		uc.Log.Warn("offlineUsecase.SyncNow error",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingUserIDKey, ownerID),
			zap.Error(err),
		)
		return nil, err
	}

	return &responses.SyncReport{
		Succeeded:  nonNil(report.Succeeded),
		Failed:     nonNil(report.Failed),
		Skipped:    nonNil(report.Skipped),
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
	}, nil
}

func (uc *offlineUsecase) CacheValue(ctx context.Context, request *requests.CacheValue) error {
	ownerID, err := uc.owner(ctx)
	if err != nil {
		return err
	}
	return uc.Queue.CacheValue(ctx, ownerID, request.Key, request.Value, request.TTLMinutes)
}

func (uc *offlineUsecase) GetCachedValue(ctx context.Context, key string) (*responses.CachedValue, error) {
	ownerID, err := uc.owner(ctx)
	if err != nil {
		return nil, err
	}

	value, ok, err := uc.Queue.GetCachedValue(ctx, ownerID, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, exceptions.ErrCachedValueNotFound(key)
	}
	return &responses.CachedValue{Key: key, Value: value}, nil
}

func (uc *offlineUsecase) owner(ctx context.Context) (string, error) {
	ownerID := utils.GetUserID(ctx)
	if ownerID == "" {
		return "", exceptions.ErrNotAuthorized("no user on the request context")
	}
	return ownerID, nil
}

func toOfflineActionResponse(action models.OfflineAction) responses.OfflineAction {
	return responses.OfflineAction{
		ID:        action.ID,
		Type:      action.Type,
		Table:     action.Table,
		TargetID:  action.TargetID,
		Data:      action.Data,
		Timestamp: action.Timestamp,
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
