package sweeper

import (
	"context"
	"time"

	"dococlock-service/internal/app/config"
	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	fallbackCronSpec = "@every 5m"
	leaderLockTTL    = 2 * time.Minute
)

// Worker periodically replays what the reconnect hooks may have missed: parked wallet
// credits, completed top-ups that never reached the wallet, and queued offline actions
// while the network is up. Only one instance sweeps at a time.
type Worker struct {
	log         *zap.Logger
	cfg         *config.InternalConfig
	locker      contracts.LockerService
	wallet      contracts.WalletService
	reconciler  contracts.WalletCreditReconciler
	coordinator contracts.SyncCoordinator
	monitor     contracts.NetworkMonitor
	queue       contracts.OfflineQueue

	cron   *cron.Cron
	runCtx context.Context
	cancel context.CancelFunc
}

func NewWorker(
	log *zap.Logger,
	cfg *config.InternalConfig,
	locker contracts.LockerService,
	wallet contracts.WalletService,
	reconciler contracts.WalletCreditReconciler,
	coordinator contracts.SyncCoordinator,
	monitor contracts.NetworkMonitor,
	queue contracts.OfflineQueue,
) *Worker {
	return &Worker{
		log:         log,
		cfg:         cfg,
		locker:      locker,
		wallet:      wallet,
		reconciler:  reconciler,
		coordinator: coordinator,
		monitor:     monitor,
		queue:       queue,
	}
}

func (w *Worker) Start(ctx context.Context) {
	w.runCtx, w.cancel = context.WithCancel(ctx)

	spec := w.cfg.OfflineSync.SweepCronSpec
	c := cron.New()
	_, err := c.AddFunc(spec, func() { w.RunOnce(w.runCtx) })
	if err != nil {
		w.log.Warn("sweeper.Worker.Start invalid cron spec, falling back",
			zap.String("cron_spec", spec),
			zap.String("fallback", fallbackCronSpec),
			zap.Error(err),
		)
		c = cron.New()
		_, _ = c.AddFunc(fallbackCronSpec, func() { w.RunOnce(w.runCtx) })
	}
	c.Start()
	w.cron = c
}

// Stop waits for a running sweep to finish.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
}

func (w *Worker) RunOnce(ctx context.Context) {
	ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, utils.GenerateRequestID())
	requestID := utils.GetRequestID(ctx)

	acquired, token, err := w.locker.TryLock(ctx, constvars.RedisKeySyncWorkerLock, leaderLockTTL)
	if err != nil {
		w.log.Warn("sweeper.Worker.RunOnce leader lock attempt failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return
	}
	if !acquired {
		w.log.Info("sweeper.Worker.RunOnce another instance is sweeping",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return
	}
	defer w.locker.Unlock(utils.DetachedContext(ctx), constvars.RedisKeySyncWorkerLock, token)

	if !w.monitor.State().IsOnline {
		w.log.Info("sweeper.Worker.RunOnce offline, nothing to do",
			zap.String(constvars.LoggingRequestIDKey, requestID),
		)
		return
	}

	published, err := w.wallet.RetryFailed(ctx)
	if err != nil {
		w.log.Warn("sweeper.Worker.RunOnce wallet replay stopped",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int("published", published),
			zap.Error(err),
		)
	}

	credited, err := w.reconciler.ReconcileWalletCredits(ctx)
	if err != nil {
		w.log.Warn("sweeper.Worker.RunOnce top-up reconciliation stopped",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int("credited", credited),
			zap.Error(err),
		)
	} else if credited > 0 {
		w.log.Info("sweeper.Worker.RunOnce credited missed top-ups",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int("credited", credited),
		)
	}

	if len(w.queue.List()) == 0 {
		return
	}
	report, err := w.coordinator.SyncNow(ctx)
	if err != nil {
		if exceptions.HasCode(err, constvars.ErrCodeInternal) {
			w.log.Info("sweeper.Worker.RunOnce sync already running",
				zap.String(constvars.LoggingRequestIDKey, requestID),
			)
			return
		}
		w.log.Warn("sweeper.Worker.RunOnce sync failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return
	}

	w.log.Info("sweeper.Worker.RunOnce succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("wallet_published", published),
		zap.Int("succeeded", len(report.Succeeded)),
		zap.Int("failed", len(report.Failed)),
		zap.Int("skipped", len(report.Skipped)),
	)
}
