package offlinesync

import (
	"context"
	"errors"
	"sync"
	"time"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"go.uber.org/zap"
)

const defaultHandlerTimeout = 10 * time.Second

// deadLetter is what lands on the dead letter queue for an action nobody can handle.
type deadLetter struct {
	Action   models.OfflineAction `json:"action"`
	Reason   string               `json:"reason"`
	FailedAt time.Time            `json:"failed_at"`
}

type SyncCoordinator struct {
	queue          contracts.OfflineQueue
	deadLetters    contracts.DeadLetterPublisher
	handlers       map[string]contracts.ActionHandler
	handlerTimeout time.Duration
	log            *zap.Logger
	now            func() time.Time

	mu    sync.Mutex
	state models.SyncState
	wg    sync.WaitGroup
}

func NewSyncCoordinator(queue contracts.OfflineQueue, deadLetters contracts.DeadLetterPublisher, handlerTimeout time.Duration, logger *zap.Logger) *SyncCoordinator {
	if handlerTimeout <= 0 {
		handlerTimeout = defaultHandlerTimeout
	}
	return &SyncCoordinator{
		queue:          queue,
		deadLetters:    deadLetters,
		handlers:       make(map[string]contracts.ActionHandler),
		handlerTimeout: handlerTimeout,
		log:            logger,
		now:            time.Now,
		state:          models.SyncStateIdle,
	}
}

// Register binds a handler to an action type. It is meant to be called during wiring,
// before the first pass.
func (c *SyncCoordinator) Register(actionType string, handler contracts.ActionHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[actionType] = handler
}

func (c *SyncCoordinator) State() models.SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HandleNetworkEvent starts a background pass when the network comes back and there is
// something to send. Only one pass runs at a time; nothing is rescheduled.
func (c *SyncCoordinator) HandleNetworkEvent(event models.NetworkEvent) {
	if event.Type != models.NetworkEventOnline {
		return
	}
	if len(c.queue.List()) == 0 {
		return
	}
	if !c.begin() {
		c.log.Info("syncCoordinator.HandleNetworkEvent pass already running")
		return
	}

	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, utils.GenerateRequestID())
	go func() {
		defer c.end()
		c.runPass(ctx, c.queue.List())
	}()
}

// SyncNow runs a pass over every owner's actions.
func (c *SyncCoordinator) SyncNow(ctx context.Context) (*models.SyncReport, error) {
	if !c.begin() {
		return nil, exceptions.ErrSyncInProgress()
	}
	defer c.end()
	return c.runPass(ctx, c.queue.List()), nil
}

func (c *SyncCoordinator) SyncOwner(ctx context.Context, ownerID string) (*models.SyncReport, error) {
	if !c.begin() {
		return nil, exceptions.ErrSyncInProgress()
	}
	defer c.end()
	return c.runPass(ctx, c.queue.ListFor(ownerID)), nil
}

// Wait blocks until an in-flight pass has finished.
func (c *SyncCoordinator) Wait() {
	c.wg.Wait()
}

func (c *SyncCoordinator) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != models.SyncStateIdle {
		return false
	}
	c.state = models.SyncStateSyncing
	c.wg.Add(1)
	return true
}

func (c *SyncCoordinator) end() {
	c.mu.Lock()
	c.state = models.SyncStateIdle
	c.mu.Unlock()
	c.wg.Done()
}

// runPass drains a snapshot of the queue in capture order. Failed actions stay queued for
// the next pass; unknown types and actions a handler refuses on ownership grounds are
// dead-lettered and dropped. An applied action that could
// not be dequeued is reported failed, since it will be replayed.
func (c *SyncCoordinator) runPass(ctx context.Context, snapshot []models.OfflineAction) *models.SyncReport {
	requestID := utils.GetRequestID(ctx)
	report := &models.SyncReport{StartedAt: c.now().UTC()}

	c.log.Info("syncCoordinator.runPass called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingPendingCountKey, len(snapshot)),
	)

	for _, action := range snapshot {
		if ctx.Err() != nil {
			c.log.Warn("syncCoordinator.runPass stopped early",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(ctx.Err()),
			)
			break
		}

		c.mu.Lock()
		handler, ok := c.handlers[action.Type]
		c.mu.Unlock()

		if !ok {
			c.discard(ctx, action, exceptions.ErrUnknownActionType(action.Type))
			report.Skipped = append(report.Skipped, action.ID)
			continue
		}

		handlerCtx, cancel := context.WithTimeout(ctx, c.handlerTimeout)
		err := handler.Handle(handlerCtx, action)
		cancel()
		var refused *exceptions.CustomError
		if errors.As(err, &refused) && refused.Code == constvars.ErrCodeForbidden {
			c.discard(ctx, action, refused)
			report.Skipped = append(report.Skipped, action.ID)
			continue
		}
		if err != nil {
			c.log.Error("syncCoordinator.runPass handler failed, action stays queued",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingActionIDKey, action.ID),
				zap.String(constvars.LoggingActionTypeKey, action.Type),
				zap.Error(err),
			)
			report.Failed = append(report.Failed, action.ID)
			continue
		}

		if err := c.queue.Remove(ctx, action.OwnerID, action.ID); err != nil {
			c.log.Error("syncCoordinator.runPass error removing processed action, action stays queued",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingActionIDKey, action.ID),
				zap.String(constvars.LoggingUserIDKey, action.OwnerID),
				zap.Error(err),
			)
			report.Failed = append(report.Failed, action.ID)
			continue
		}
		report.Succeeded = append(report.Succeeded, action.ID)
	}

	report.FinishedAt = c.now().UTC()
	c.log.Info("syncCoordinator.runPass succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("succeeded", len(report.Succeeded)),
		zap.Int("failed", len(report.Failed)),
		zap.Int("skipped", len(report.Skipped)),
	)
	return report
}

// discard dead-letters an action that can never be applied and drops it from the queue.
func (c *SyncCoordinator) discard(ctx context.Context, action models.OfflineAction, cause *exceptions.CustomError) {
	requestID := utils.GetRequestID(ctx)
	c.log.Warn("syncCoordinator.discard action cannot be applied",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingActionIDKey, action.ID),
		zap.String(constvars.LoggingActionTypeKey, action.Type),
		zap.String(constvars.LoggingUserIDKey, action.OwnerID),
		zap.String(constvars.LoggingErrorCodeKey, cause.Code),
	)

	err := c.deadLetters.PublishDeadLetter(ctx, deadLetter{
		Action:   action,
		Reason:   cause.DevMessage,
		FailedAt: c.now().UTC(),
	})
	if err != nil {
		c.log.Error("syncCoordinator.discard error publishing dead letter",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingActionIDKey, action.ID),
			zap.ByteString(constvars.LoggingDataKey, action.Data),
			zap.Error(err),
		)
	}

	if err := c.queue.Remove(ctx, action.OwnerID, action.ID); err != nil {
		c.log.Error("syncCoordinator.discard error removing action",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingActionIDKey, action.ID),
			zap.Error(err),
		)
	}
}
