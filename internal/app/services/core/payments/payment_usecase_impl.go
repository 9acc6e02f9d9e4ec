package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dococlock-service/internal/app/config"
	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/dto/responses"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"go.uber.org/zap"
)

const (
	defaultCaptureLockTTL = 30 * time.Second
	systemActor           = "system"
	reconcileBatchSize    = 100
)

type paymentUsecase struct {
	Ledger         contracts.PaymentLedger
	Gateways       map[models.PaymentMethod]contracts.PaymentGateway
	Locker         contracts.LockerService
	WalletService  contracts.WalletService
	ReceiptStorage contracts.ReceiptStorage
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
}

func NewPaymentUsecase(
	ledger contracts.PaymentLedger,
	gateways []contracts.PaymentGateway,
	locker contracts.LockerService,
	walletService contracts.WalletService,
	receiptStorage contracts.ReceiptStorage,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.PaymentUsecase {
	registry := make(map[models.PaymentMethod]contracts.PaymentGateway, len(gateways))
	for _, gateway := range gateways {
		registry[gateway.Method()] = gateway
	}
	return &paymentUsecase{
		Ledger:         ledger,
		Gateways:       registry,
		Locker:         locker,
		WalletService:  walletService,
		ReceiptStorage: receiptStorage,
		InternalConfig: internalConfig,
		Log:            logger,
	}
}

func (uc *paymentUsecase) InitiatePayment(ctx context.Context, request *requests.InitiatePayment) (*responses.InitiatePayment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("paymentUsecase.InitiatePayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentMethodKey, request.PaymentMethod),
	)

	method := models.PaymentMethod(request.PaymentMethod)
	gateway, err := uc.gatewayFor(method)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		PatientID:     request.PatientID,
		PayeeID:       request.PayeeID,
		Amount:        request.Amount,
		Currency:      request.Currency,
		PaymentMethod: method,
		Purpose:       models.PaymentPurpose(request.Purpose),
		Description:   request.Description,
	}

	// Mobile money numbers are checked against the operator before anything is
	// persisted or sent to the gateway.
	if method == models.PaymentMethodMobileMoney {
		phoneNumber, provider, err := checkMobileMoneyNumber(request.PhoneNumber, request.MobileMoneyProvider)
		if err != nil {
			uc.Log.Warn("paymentUsecase.InitiatePayment rejected mobile money number",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, err
		}
		payment.PhoneNumber = phoneNumber
		payment.MobileMoneyProvider = provider
	}

	payment, err = uc.Ledger.Create(ctx, payment)
	if err != nil {
		return nil, err
	}

	result, err := gateway.Initiate(ctx, &contracts.GatewayInitiateInput{
		Payment:     payment,
		CardToken:   request.CardToken,
		ReturnURL:   request.ReturnURL,
		Description: request.Description,
	})
	if err != nil {
		uc.Log.Error("paymentUsecase.InitiatePayment error initiating with gateway",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, payment.ID),
			zap.Error(err),
		)
		uc.failPayment(ctx, payment.ID, err)
		return nil, err
	}

	if result.ExternalReference != "" {
		err = utils.RetryWithBackoff(ctx, utils.DefaultRetryAttempts, utils.DefaultRetryBaseDelay, func() error {
			return uc.Ledger.AttachExternalReference(ctx, payment.ID, result.ExternalReference)
		})
		if err != nil {
			return nil, err
		}
		payment.ExternalPaymentID = result.ExternalReference
	}

	response := &responses.InitiatePayment{PaymentURL: result.PaymentURL}
	if result.Status == models.PaymentStatusCompleted {
		payment, err = uc.completePayment(ctx, payment, result.Message)
		if err != nil {
			return nil, err
		}
		response.DirectResult = string(models.PaymentStatusCompleted)
	}
	response.Payment = toPaymentResponse(payment)

	uc.Log.Info("paymentUsecase.InitiatePayment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, payment.ID),
		zap.String(constvars.LoggingPaymentStatusKey, string(payment.Status)),
	)
	return response, nil
}

func (uc *paymentUsecase) GetPayment(ctx context.Context, paymentID string) (*responses.Payment, error) {
	payment, err := uc.Ledger.Get(ctx, paymentID)
	if err != nil {
		uc.Log.Error("paymentUsecase.GetPayment error",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.Error(err),
		)
		return nil, err
	}
	if err := uc.authorize(ctx, payment, accessView); err != nil {
		return nil, err
	}
	response := toPaymentResponse(payment)
	return &response, nil
}

// CapturePayment is idempotent: a payment that is already completed is returned as is and
// the gateway is not called again. Only the paying patient may capture.
func (uc *paymentUsecase) CapturePayment(ctx context.Context, request *requests.CapturePayment) (*responses.Payment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("paymentUsecase.CapturePayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, request.PaymentID),
	)

	payment, err := uc.Ledger.Get(ctx, request.PaymentID)
	if err != nil {
		return nil, err
	}
	if err := uc.authorize(ctx, payment, accessCapture); err != nil {
		return nil, err
	}
	return uc.capture(ctx, request)
}

// capture runs the gateway capture without an ownership check, for callbacks.
func (uc *paymentUsecase) capture(ctx context.Context, request *requests.CapturePayment) (*responses.Payment, error) {
	payment, err := uc.settle(ctx, request.PaymentID, func(payment *models.Payment) (*contracts.GatewayResult, error) {
		gateway, err := uc.gatewayFor(payment.PaymentMethod)
		if err != nil {
			return nil, err
		}
		externalReference := request.ExternalReference
		if externalReference == "" {
			externalReference = payment.ExternalPaymentID
		}
		return gateway.Capture(ctx, payment, externalReference)
	})
	if err != nil {
		return nil, err
	}

	response := toPaymentResponse(payment)
	return &response, nil
}

// RefundPayment only touches completed payments and only the payee may ask for it. A
// gateway failure leaves the payment completed since the original charge did go through.
func (uc *paymentUsecase) RefundPayment(ctx context.Context, request *requests.RefundPayment) (*responses.Payment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("paymentUsecase.RefundPayment called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, request.PaymentID),
	)

	payment, err := uc.Ledger.Get(ctx, request.PaymentID)
	if err != nil {
		return nil, err
	}
	if err := uc.authorize(ctx, payment, accessRefund); err != nil {
		return nil, err
	}
	if !models.IsValidTransition(payment.Status, models.PaymentStatusRefunded) {
		return nil, exceptions.ErrInvalidTransition(string(payment.Status), string(models.PaymentStatusRefunded))
	}

	amount := payment.Amount
	if request.Amount != nil {
		amount = *request.Amount
	}
	if !amount.IsPositive() || amount.GreaterThan(payment.Amount) {
		return nil, exceptions.ErrInvalidRefundAmount(amount.String(), payment.Amount.String())
	}

	gateway, err := uc.gatewayFor(payment.PaymentMethod)
	if err != nil {
		return nil, err
	}

	_, err = gateway.Refund(ctx, &contracts.GatewayRefundInput{
		Payment: payment,
		Amount:  amount,
		Reason:  request.Reason,
	})
	if err != nil {
		uc.Log.Error("paymentUsecase.RefundPayment error refunding with gateway",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, payment.ID),
			zap.Error(err),
		)
		return nil, err
	}

	refunded, err := uc.transition(ctx, &models.PaymentTransition{
		PaymentID:    payment.ID,
		Next:         models.PaymentStatusRefunded,
		Actor:        actorFrom(ctx),
		Reason:       request.Reason,
		RefundAmount: &amount,
	})
	if err != nil {
		uc.Log.Error("paymentUsecase.RefundPayment error recording refund",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, payment.ID),
			zap.Error(err),
		)
		return nil, err
	}

	uc.Log.Info("paymentUsecase.RefundPayment succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, refunded.ID),
	)
	response := toPaymentResponse(refunded)
	return &response, nil
}

// HandleCallback applies a settlement notification. Approval of a redirect flow still
// needs a capture call; terminal gateway statuses are recorded directly.
func (uc *paymentUsecase) HandleCallback(ctx context.Context, request *requests.PaymentCallback) (*responses.Payment, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("paymentUsecase.HandleCallback called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, request.PaymentID),
		zap.String(constvars.LoggingPaymentMethodKey, request.PaymentMethod),
		zap.String(constvars.LoggingPaymentStatusKey, request.Status),
	)

	payment, err := uc.Ledger.Get(ctx, request.PaymentID)
	if err != nil {
		return nil, err
	}
	if string(payment.PaymentMethod) != request.PaymentMethod {
		return nil, exceptions.ErrUnsupportedPaymentMethod(request.PaymentMethod)
	}

	switch callbackOutcome(request.Status) {
	case callbackApproved:
		return uc.capture(ctx, &requests.CapturePayment{
			PaymentID:         request.PaymentID,
			ExternalReference: request.ExternalReference,
		})
	case callbackCompleted:
		payment, err = uc.settle(ctx, request.PaymentID, func(payment *models.Payment) (*contracts.GatewayResult, error) {
			return &contracts.GatewayResult{
				ExternalReference: request.ExternalReference,
				Status:            models.PaymentStatusCompleted,
				Message:           request.Status,
			}, nil
		})
		if err != nil {
			return nil, err
		}
	case callbackFailed:
		if payment.Status == models.PaymentStatusPending {
			reason := request.Reason
			if reason == "" {
				reason = request.Status
			}
			payment, err = uc.transition(ctx, &models.PaymentTransition{
				PaymentID: payment.ID,
				Next:      models.PaymentStatusFailed,
				Actor:     "gateway:" + request.PaymentMethod,
				Reason:    reason,
			})
			if err != nil {
				return nil, err
			}
		}
	default:
		uc.Log.Warn("paymentUsecase.HandleCallback ignored non-final status",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, payment.ID),
			zap.String(constvars.LoggingPaymentStatusKey, request.Status),
		)
	}

	response := toPaymentResponse(payment)
	return &response, nil
}

func (uc *paymentUsecase) GetPaymentReceipt(ctx context.Context, paymentID string) (*responses.PaymentReceipt, error) {
	requestID := utils.GetRequestID(ctx)

	payment, err := uc.Ledger.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if err := uc.authorize(ctx, payment, accessView); err != nil {
		return nil, err
	}
	if payment.Status != models.PaymentStatusCompleted && payment.Status != models.PaymentStatusRefunded {
		return nil, exceptions.ErrReceiptNotFound(nil, paymentID)
	}

	url, expiresAt, err := uc.ReceiptStorage.GetReceiptURL(ctx, paymentID)
	if err != nil {
		uc.Log.Error("paymentUsecase.GetPaymentReceipt error",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.Error(err),
		)
		return nil, err
	}

	return &responses.PaymentReceipt{
		PaymentID: paymentID,
		URL:       url,
		ExpiresAt: expiresAt,
	}, nil
}

// settle moves a pending payment to completed under the per-payment capture lock. The
// outcome func decides what the gateway says; a failing outcome fails the payment.
func (uc *paymentUsecase) settle(
	ctx context.Context,
	paymentID string,
	outcome func(payment *models.Payment) (*contracts.GatewayResult, error),
) (*models.Payment, error) {
	requestID := utils.GetRequestID(ctx)

	payment, err := uc.Ledger.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentStatusCompleted {
		uc.creditTopUp(ctx, payment)
		return payment, nil
	}
	if payment.Status != models.PaymentStatusPending {
		return nil, exceptions.ErrInvalidTransition(string(payment.Status), string(models.PaymentStatusCompleted))
	}

	lockKey := fmt.Sprintf(constvars.RedisKeyPaymentCaptureLock, paymentID)
	acquired, lockValue, err := uc.Locker.TryLock(ctx, lockKey, uc.captureLockTTL())
	if err != nil {
		return nil, err
	}
	if !acquired {
		uc.Log.Warn("paymentUsecase.settle capture lock held elsewhere",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
		)
		return nil, exceptions.ErrPaymentCaptureLocked(paymentID)
	}
	defer func() {
		if err := uc.Locker.Unlock(utils.DetachedContext(ctx), lockKey, lockValue); err != nil {
			uc.Log.Error("paymentUsecase.settle error releasing capture lock",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingPaymentIDKey, paymentID),
				zap.Error(err),
			)
		}
	}()

	// Whoever held the lock before us may already have finished.
	payment, err = uc.Ledger.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentStatusCompleted {
		uc.creditTopUp(ctx, payment)
		return payment, nil
	}
	if payment.Status != models.PaymentStatusPending {
		return nil, exceptions.ErrInvalidTransition(string(payment.Status), string(models.PaymentStatusCompleted))
	}

	result, err := outcome(payment)
	if err != nil {
		uc.Log.Error("paymentUsecase.settle gateway capture failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.Error(err),
		)
		uc.failPayment(ctx, paymentID, err)
		return nil, err
	}

	if result.Status != models.PaymentStatusCompleted {
		uc.Log.Info("paymentUsecase.settle payment still pending at gateway",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
		)
		return payment, nil
	}

	if result.ExternalReference != "" && result.ExternalReference != payment.ExternalPaymentID {
		err = utils.RetryWithBackoff(ctx, utils.DefaultRetryAttempts, utils.DefaultRetryBaseDelay, func() error {
			return uc.Ledger.AttachExternalReference(ctx, paymentID, result.ExternalReference)
		})
		if err != nil {
			return nil, err
		}
		payment.ExternalPaymentID = result.ExternalReference
	}

	return uc.completePayment(ctx, payment, result.Message)
}

// completePayment records completion and, for wallet top ups, hands the credit to the
// wallet ledger. A failed credit does not undo the completion; the payment stays
// uncredited until a retried capture or the reconciler gets it through.
func (uc *paymentUsecase) completePayment(ctx context.Context, payment *models.Payment, message string) (*models.Payment, error) {
	reason := "payment captured"
	if message != "" {
		reason = fmt.Sprintf("payment captured (%s)", message)
	}

	completed, err := uc.transition(ctx, &models.PaymentTransition{
		PaymentID: payment.ID,
		Next:      models.PaymentStatusCompleted,
		Actor:     "gateway:" + string(payment.PaymentMethod),
		Reason:    reason,
	})
	if err != nil {
		return nil, err
	}

	uc.creditTopUp(ctx, completed)
	return completed, nil
}

// creditTopUp hands a completed top up to the wallet service and records that it did.
// Credits are deduplicated by payment id downstream, so calling it again for a payment
// whose flag write was lost is harmless. Failures are logged and reported false.
func (uc *paymentUsecase) creditTopUp(ctx context.Context, payment *models.Payment) bool {
	if payment.Purpose != models.PaymentPurposeWalletTopUp || payment.WalletCredited {
		return true
	}
	requestID := utils.GetRequestID(ctx)

	err := uc.WalletService.CreditWallet(ctx, &models.WalletCredit{
		UserID:      payment.PatientID,
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Description: "wallet top up",
		ReferenceID: payment.ID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		uc.Log.Error("paymentUsecase.creditTopUp error crediting wallet",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, payment.ID),
			zap.Error(err),
		)
		return false
	}

	err = utils.RetryWithBackoff(ctx, utils.DefaultRetryAttempts, utils.DefaultRetryBaseDelay, func() error {
		return uc.Ledger.MarkWalletCredited(ctx, payment.ID)
	})
	if err != nil {
		uc.Log.Error("paymentUsecase.creditTopUp error recording wallet credit",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingPaymentIDKey, payment.ID),
			zap.Error(err),
		)
		return false
	}

	payment.WalletCredited = true
	utils.LogBusinessEvent(uc.Log, "wallet_topup_credited", requestID,
		zap.String(constvars.LoggingPaymentIDKey, payment.ID),
		zap.String(constvars.LoggingUserIDKey, payment.PatientID),
	)
	return true
}

// ReconcileWalletCredits replays the credit for completed top ups that never got one. It
// works through one batch per call and returns how many it credited.
func (uc *paymentUsecase) ReconcileWalletCredits(ctx context.Context) (int, error) {
	requestID := utils.GetRequestID(ctx)
	uc.Log.Info("paymentUsecase.ReconcileWalletCredits called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	pending, err := uc.Ledger.ListUncreditedTopUps(ctx, reconcileBatchSize)
	if err != nil {
		return 0, err
	}

	credited := 0
	for _, payment := range pending {
		if ctx.Err() != nil {
			return credited, ctx.Err()
		}
		if uc.creditTopUp(ctx, payment) {
			credited++
		}
	}

	uc.Log.Info("paymentUsecase.ReconcileWalletCredits succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("pending", len(pending)),
		zap.Int("credited", credited),
	)
	return credited, nil
}

// failPayment records a gateway failure. It is best effort: the caller already has the
// gateway error to return.
func (uc *paymentUsecase) failPayment(ctx context.Context, paymentID string, cause error) {
	_, err := uc.transition(ctx, &models.PaymentTransition{
		PaymentID: paymentID,
		Next:      models.PaymentStatusFailed,
		Actor:     systemActor,
		Reason:    gatewayReason(cause),
	})
	if err != nil {
		uc.Log.Error("paymentUsecase.failPayment error recording failure",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingPaymentIDKey, paymentID),
			zap.Error(err),
		)
	}
}

func (uc *paymentUsecase) transition(ctx context.Context, transition *models.PaymentTransition) (*models.Payment, error) {
	var payment *models.Payment
	err := utils.RetryWithBackoff(ctx, utils.DefaultRetryAttempts, utils.DefaultRetryBaseDelay, func() error {
		var err error
		payment, err = uc.Ledger.Transition(ctx, transition)
		return err
	})
	return payment, err
}

func (uc *paymentUsecase) gatewayFor(method models.PaymentMethod) (contracts.PaymentGateway, error) {
	gateway, ok := uc.Gateways[method]
	if !ok {
		return nil, exceptions.ErrUnsupportedPaymentMethod(string(method))
	}
	return gateway, nil
}

func (uc *paymentUsecase) captureLockTTL() time.Duration {
	if uc.InternalConfig == nil || uc.InternalConfig.App.PaymentCaptureLockInSeconds <= 0 {
		return defaultCaptureLockTTL
	}
	return time.Duration(uc.InternalConfig.App.PaymentCaptureLockInSeconds) * time.Second
}

func checkMobileMoneyNumber(phoneNumber, providerName string) (string, models.MobileMoneyProvider, error) {
	normalized, err := utils.NormalizeZambianPhone(phoneNumber)
	if err != nil {
		return "", "", exceptions.ErrInvalidPhoneNumber(phoneNumber)
	}

	prefix := utils.LocalPrefix(normalized)
	provider, ok := models.ParseMobileMoneyProvider(providerName)
	if !ok || !provider.OwnsPrefix(prefix) {
		return "", "", exceptions.ErrIncompatibleProvider(prefix, providerName)
	}
	return normalized, provider, nil
}

func actorFrom(ctx context.Context) string {
	if userID := utils.GetUserID(ctx); userID != "" {
		return userID
	}
	return systemActor
}

func gatewayReason(err error) string {
	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		return customErr.DevMessage
	}
	return err.Error()
}

type callbackResult int

const (
	callbackIgnored callbackResult = iota
	callbackApproved
	callbackCompleted
	callbackFailed
)

func callbackOutcome(status string) callbackResult {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case constvars.PayPalStatusApproved:
		return callbackApproved
	case constvars.MobileMoneyStatusSuccessful, constvars.PayPalStatusCompleted, strings.ToUpper(constvars.CardStatusSucceeded):
		return callbackCompleted
	case constvars.MobileMoneyStatusFailed, constvars.MobileMoneyStatusRejected, constvars.MobileMoneyStatusTimeout,
		constvars.PayPalStatusDeclined, constvars.PayPalStatusVoided:
		return callbackFailed
	default:
		return callbackIgnored
	}
}

func toPaymentResponse(payment *models.Payment) responses.Payment {
	response := responses.Payment{
		ID:                  payment.ID,
		PatientID:           payment.PatientID,
		PayeeID:             payment.PayeeID,
		Amount:              payment.Amount.StringFixed(2),
		Currency:            payment.Currency,
		Status:              string(payment.Status),
		PaymentMethod:       string(payment.PaymentMethod),
		Purpose:             string(payment.Purpose),
		ExternalPaymentID:   payment.ExternalPaymentID,
		PhoneNumber:         payment.PhoneNumber,
		MobileMoneyProvider: string(payment.MobileMoneyProvider),
		RefundReason:        payment.RefundReason,
		CreatedAt:           payment.CreatedAt,
		UpdatedAt:           payment.UpdatedAt,
	}
	if payment.RefundAmount != nil {
		response.RefundAmount = payment.RefundAmount.StringFixed(2)
	}
	for _, entry := range payment.StatusHistory {
		response.StatusHistory = append(response.StatusHistory, responses.StatusHistoryEntry{
			Status:    string(entry.Status),
			Timestamp: entry.Timestamp,
			Reason:    entry.Reason,
			UpdatedBy: entry.UpdatedBy,
		})
	}
	return response
}
