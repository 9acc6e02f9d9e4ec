package payments

import (
	"context"
	"time"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransitionHook runs after a transition has been persisted. Hooks cannot undo the
// transition, so they log their own failures.
type TransitionHook func(ctx context.Context, payment *models.Payment)

type paymentLedger struct {
	PaymentRepository contracts.PaymentRepository
	Hooks             []TransitionHook
	Log               *zap.Logger
	now               func() time.Time
}

func NewPaymentLedger(paymentRepository contracts.PaymentRepository, logger *zap.Logger, hooks ...TransitionHook) contracts.PaymentLedger {
	return &paymentLedger{
		PaymentRepository: paymentRepository,
		Hooks:             hooks,
		Log:               logger,
		now:               time.Now,
	}
}

func (l *paymentLedger) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	requestID := utils.GetRequestID(ctx)

	now := l.now().UTC()
	created := payment.Clone()
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.Currency == "" {
		created.Currency = constvars.DefaultCurrency
	}
	created.Status = models.PaymentStatusPending
	created.StatusHistory = []models.StatusHistoryEntry{{
		Status:    models.PaymentStatusPending,
		Timestamp: now,
		Reason:    "payment created",
		UpdatedBy: created.PatientID,
	}}
	created.CreatedAt = now
	created.UpdatedAt = now

	err := l.PaymentRepository.Insert(ctx, created)
	if err != nil {
		l.Log.Error("paymentLedger.Create error inserting payment",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, created.ID),
			zap.Error(err),
		)
		return nil, err
	}

	l.Log.Info("paymentLedger.Create succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, created.ID),
		zap.String(constvars.LoggingPaymentMethodKey, string(created.PaymentMethod)),
	)
	return created, nil
}

func (l *paymentLedger) Get(ctx context.Context, paymentID string) (*models.Payment, error) {
	payment, err := l.PaymentRepository.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, exceptions.ErrPaymentNotFound(nil, paymentID)
	}
	return payment, nil
}

// Transition validates and persists one status change. The write is conditional on the
// status and history length read here; losing that race yields a conflict, never a
// silent overwrite. Retrying is left to the caller.
func (l *paymentLedger) Transition(ctx context.Context, transition *models.PaymentTransition) (*models.Payment, error) {
	requestID := utils.GetRequestID(ctx)
	l.Log.Info("paymentLedger.Transition called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, transition.PaymentID),
		zap.String(constvars.LoggingPaymentNextStatusKey, string(transition.Next)),
	)

	payment, err := l.Get(ctx, transition.PaymentID)
	if err != nil {
		return nil, err
	}

	if !models.IsValidTransition(payment.Status, transition.Next) {
		l.Log.Warn("paymentLedger.Transition rejected invalid transition",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, payment.ID),
			zap.String(constvars.LoggingPaymentStatusKey, string(payment.Status)),
			zap.String(constvars.LoggingPaymentNextStatusKey, string(transition.Next)),
		)
		return nil, exceptions.ErrInvalidTransition(string(payment.Status), string(transition.Next))
	}

	now := l.now().UTC()
	update := &models.PaymentUpdate{
		PaymentID:             payment.ID,
		ExpectedStatus:        payment.Status,
		ExpectedHistoryLength: len(payment.StatusHistory),
		Status:                transition.Next,
		Entry: models.StatusHistoryEntry{
			Status:    transition.Next,
			Timestamp: now,
			Reason:    transition.Reason,
			UpdatedBy: transition.Actor,
		},
		UpdatedAt: now,
	}

	if transition.Next == models.PaymentStatusRefunded {
		refundAmount := payment.Amount
		if transition.RefundAmount != nil {
			refundAmount = *transition.RefundAmount
		}
		if !refundAmount.IsPositive() || refundAmount.GreaterThan(payment.Amount) {
			return nil, exceptions.ErrInvalidRefundAmount(refundAmount.String(), payment.Amount.String())
		}
		update.RefundAmount = &refundAmount
		update.RefundReason = transition.Reason
	}

	applied, err := l.PaymentRepository.ApplyTransition(ctx, update)
	if err != nil {
		l.Log.Error("paymentLedger.Transition error persisting transition",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, payment.ID),
			zap.Error(err),
		)
		return nil, err
	}
	if !applied {
		l.Log.Warn("paymentLedger.Transition lost a concurrent update",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, payment.ID),
			zap.String(constvars.LoggingPaymentStatusKey, string(payment.Status)),
		)
		return nil, exceptions.ErrTransitionConflict(payment.ID, string(payment.Status))
	}

	updated := payment.Clone()
	updated.Status = update.Status
	updated.StatusHistory = append(updated.StatusHistory, update.Entry)
	updated.UpdatedAt = update.UpdatedAt
	if update.RefundAmount != nil {
		updated.RefundAmount = update.RefundAmount
		updated.RefundReason = update.RefundReason
	}

	l.Log.Info("paymentLedger.Transition succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, updated.ID),
		zap.String(constvars.LoggingPaymentStatusKey, string(updated.Status)),
	)

	for _, hook := range l.Hooks {
		hook(ctx, updated.Clone())
	}
	return updated, nil
}

func (l *paymentLedger) AttachExternalReference(ctx context.Context, paymentID, externalPaymentID string) error {
	err := l.PaymentRepository.SetExternalPaymentID(ctx, paymentID, externalPaymentID)
	if err != nil {
		l.Log.Error("paymentLedger.AttachExternalReference error",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (l *paymentLedger) MarkWalletCredited(ctx context.Context, paymentID string) error {
	err := l.PaymentRepository.MarkWalletCredited(ctx, paymentID)
	if err != nil {
		l.Log.Error("paymentLedger.MarkWalletCredited error",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (l *paymentLedger) ListUncreditedTopUps(ctx context.Context, limit int) ([]*models.Payment, error) {
	payments, err := l.PaymentRepository.FindUncreditedTopUps(ctx, limit)
	if err != nil {
		l.Log.Error("paymentLedger.ListUncreditedTopUps error",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
		return nil, err
	}
	return payments, nil
}

// NewReceiptHook archives a receipt whenever a payment settles or is refunded.
func NewReceiptHook(receiptStorage contracts.ReceiptStorage, logger *zap.Logger) TransitionHook {
	return func(ctx context.Context, payment *models.Payment) {
		if payment.Status != models.PaymentStatusCompleted && payment.Status != models.PaymentStatusRefunded {
			return
		}
		objectName, err := receiptStorage.StoreReceipt(ctx, payment)
		if err != nil {
			logger.Error("paymentLedger.receiptHook error storing receipt",
				zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
				zap.String(constvars.LoggingPaymentIDKey, payment.ID),
				zap.Error(err),
			)
			return
		}
		logger.Info("paymentLedger.receiptHook stored receipt",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingPaymentIDKey, payment.ID),
			zap.String(constvars.LoggingObjectNameKey, objectName),
		)
	}
}
