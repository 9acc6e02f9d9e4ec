package controllers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OfflineController struct {
	Log            *zap.Logger
	OfflineUsecase contracts.OfflineUsecase
}

var (
	offlineControllerInstance *OfflineController
	onceOfflineController     sync.Once
)

func NewOfflineController(logger *zap.Logger, offlineUsecase contracts.OfflineUsecase) *OfflineController {
	onceOfflineController.Do(func() {
		instance := &OfflineController{
			Log:            logger,
			OfflineUsecase: offlineUsecase,
		}
		offlineControllerInstance = instance
	})
	return offlineControllerInstance
}

func (ctrl *OfflineController) EnqueueAction(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	request := new(requests.EnqueueOfflineAction)
	if !decodeAndValidate(ctrl.Log, w, r, requestID, request) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	response, err := ctrl.OfflineUsecase.EnqueueAction(ctx, request)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "EnqueueAction", err)
		return
	}

	// a failed save is reported in-band so the client keeps the action in its own buffer
	if !response.Queued {
		utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.EnqueueActionWarningMessage, response)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "offline_action_queued", requestID,
		zap.String(constvars.LoggingActionIDKey, response.Action.ID),
		zap.String(constvars.LoggingActionTypeKey, response.Action.Type),
	)
	utils.BuildSuccessResponse(w, constvars.StatusCreated, constvars.EnqueueActionSuccessMessage, response)
}

func (ctrl *OfflineController) ListActions(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	response, err := ctrl.OfflineUsecase.ListActions(ctx)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "ListActions", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ListActionsSuccessMessage, response)
}

func (ctrl *OfflineController) RemoveAction(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	actionID := chi.URLParam(r, constvars.URLParamActionID)
	if err := ctrl.OfflineUsecase.RemoveAction(ctx, actionID); err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "RemoveAction", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.RemoveActionSuccessMessage, nil)
}

func (ctrl *OfflineController) SyncNow(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	// a pass runs every queued handler in turn, so it gets more room than a single call
	ctx, cancel := context.WithTimeout(r.Context(), 6*usecaseTimeout)
	defer cancel()

	response, err := ctrl.OfflineUsecase.SyncNow(ctx)
	if err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "SyncNow", err)
		return
	}

	utils.LogBusinessEvent(ctrl.Log, "offline_sync_requested", requestID,
		zap.Int("succeeded", len(response.Succeeded)),
		zap.Int("failed", len(response.Failed)),
		zap.Int("skipped", len(response.Skipped)),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.SyncSuccessMessage, response)
}

func (ctrl *OfflineController) CacheValue(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	request := new(requests.CacheValue)
	if !decodeOnly(ctrl.Log, w, r, requestID, request) {
		return
	}
	request.Key = chi.URLParam(r, constvars.URLParamCacheKey)
	if !validate(ctrl.Log, w, requestID, request) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	if err := ctrl.OfflineUsecase.CacheValue(ctx, request); err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "CacheValue", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.CacheValueSuccessMessage, nil)
}

func (ctrl *OfflineController) GetCachedValue(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requireRequestID(ctrl.Log, w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), usecaseTimeout)
	defer cancel()

	response, err := ctrl.OfflineUsecase.GetCachedValue(ctx, chi.URLParam(r, constvars.URLParamCacheKey))
	if err != nil {
		writeUsecaseError(ctrl.Log, w, requestID, "GetCachedValue", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.GetCachedValueSuccessMessage, response)
}
