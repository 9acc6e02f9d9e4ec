package payments

import (
	"context"
	"fmt"
	"testing"

	"dococlock-service/internal/app/config"
	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/exceptions"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type usecaseFixture struct {
	repo        *memoryPaymentRepository
	card        *fakeGateway
	mobileMoney *fakeGateway
	locker      *fakeLocker
	wallet      *fakeWallet
	receipts    *fakeReceipts
	usecase     *paymentUsecase
}

func newUsecaseFixture() *usecaseFixture {
	f := &usecaseFixture{
		repo:        newMemoryPaymentRepository(),
		card:        &fakeGateway{method: models.PaymentMethodCard},
		mobileMoney: &fakeGateway{method: models.PaymentMethodMobileMoney},
		locker:      newFakeLocker(),
		wallet:      &fakeWallet{},
		receipts:    &fakeReceipts{},
	}
	ledger := NewPaymentLedger(f.repo, zap.NewNop(), NewReceiptHook(f.receipts, zap.NewNop()))
	f.usecase = NewPaymentUsecase(
		ledger,
		[]contracts.PaymentGateway{f.card, f.mobileMoney},
		f.locker,
		f.wallet,
		f.receipts,
		&config.InternalConfig{},
		zap.NewNop(),
	).(*paymentUsecase)
	return f
}

func cardRequest(purpose models.PaymentPurpose) *requests.InitiatePayment {
	return &requests.InitiatePayment{
		PatientID:     "patient-1",
		PayeeID:       "doctor-1",
		Amount:        decimal.RequireFromString("150"),
		PaymentMethod: string(models.PaymentMethodCard),
		Purpose:       string(purpose),
		CardToken:     "tok_visa",
	}
}

func TestPaymentUsecase_InitiatePayment(t *testing.T) {
	ctx := context.Background()

	t.Run("Redirect flow stays pending", func(t *testing.T) {
		f := newUsecaseFixture()
		f.card.initiateResult = &contracts.GatewayResult{
			ExternalReference: "pi_1",
			Status:            models.PaymentStatusPending,
			PaymentURL:        "https://pay.example.com/pi_1",
		}

		response, err := f.usecase.InitiatePayment(ctx, cardRequest(models.PaymentPurposeConsultation))
		require.NoError(t, err)
		assert.Equal(t, "https://pay.example.com/pi_1", response.PaymentURL)
		assert.Equal(t, string(models.PaymentStatusPending), response.Payment.Status)
		assert.Equal(t, "pi_1", response.Payment.ExternalPaymentID)
		assert.Equal(t, "150.00", response.Payment.Amount)
		assert.Empty(t, response.DirectResult)
		assert.Equal(t, 1, f.card.initiateCalls)
	})

	t.Run("Direct completion credits a wallet top up", func(t *testing.T) {
		f := newUsecaseFixture()
		f.card.initiateResult = &contracts.GatewayResult{ExternalReference: "pi_2", Status: models.PaymentStatusCompleted}

		response, err := f.usecase.InitiatePayment(ctx, cardRequest(models.PaymentPurposeWalletTopUp))
		require.NoError(t, err)
		assert.Equal(t, string(models.PaymentStatusCompleted), response.DirectResult)
		assert.Equal(t, string(models.PaymentStatusCompleted), response.Payment.Status)
		require.Len(t, f.wallet.credits, 1)
		assert.Equal(t, response.Payment.ID, f.wallet.credits[0].ReferenceID)
		assert.Equal(t, "patient-1", f.wallet.credits[0].UserID)
		assert.Equal(t, []string{response.Payment.ID}, f.receipts.stored)
	})

	t.Run("Wallet failure keeps the payment completed", func(t *testing.T) {
		f := newUsecaseFixture()
		f.card.initiateResult = &contracts.GatewayResult{Status: models.PaymentStatusCompleted}
		f.wallet.err = assert.AnError

		response, err := f.usecase.InitiatePayment(ctx, cardRequest(models.PaymentPurposeWalletTopUp))
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusCompleted, f.repo.status(response.Payment.ID))
	})

	t.Run("Consultation never touches the wallet", func(t *testing.T) {
		f := newUsecaseFixture()
		f.card.initiateResult = &contracts.GatewayResult{Status: models.PaymentStatusCompleted}

		_, err := f.usecase.InitiatePayment(ctx, cardRequest(models.PaymentPurposeConsultation))
		require.NoError(t, err)
		assert.Empty(t, f.wallet.credits)
	})

	t.Run("Gateway failure fails the payment", func(t *testing.T) {
		f := newUsecaseFixture()
		f.card.initiateErr = errGatewayDown

		_, err := f.usecase.InitiatePayment(ctx, cardRequest(models.PaymentPurposeConsultation))
		require.Error(t, err)
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodeGateway))

		require.Equal(t, 1, f.repo.inserts)
		for id := range f.repo.payments {
			assert.Equal(t, models.PaymentStatusFailed, f.repo.status(id))
		}
	})

	t.Run("Unsupported method is rejected before anything is stored", func(t *testing.T) {
		f := newUsecaseFixture()
		request := cardRequest(models.PaymentPurposeConsultation)
		request.PaymentMethod = string(models.PaymentMethodBankTransfer)

		_, err := f.usecase.InitiatePayment(ctx, request)
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodeValidation))
		assert.Equal(t, 0, f.repo.inserts)
	})
}

func TestPaymentUsecase_InitiateMobileMoney(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name      string
		phone     string
		provider  string
		wantCode  string
		wantPhone string
	}{
		{name: "Airtel local number", phone: "0971234567", provider: "airtel", wantPhone: "260971234567"},
		{name: "MTN country coded", phone: "+260 96 123 4567", provider: "mtn", wantPhone: "260961234567"},
		{name: "Zamtel bare number", phone: "751234567", provider: "zamtel", wantPhone: "260751234567"},
		{name: "Airtel number sent as MTN", phone: "0971234567", provider: "mtn", wantCode: constvars.ErrCodeIncompatibleProvider},
		{name: "Unknown provider", phone: "0971234567", provider: "vodafone", wantCode: constvars.ErrCodeIncompatibleProvider},
		{name: "Landline", phone: "0211234567", provider: "airtel", wantCode: constvars.ErrCodeValidation},
		{name: "Garbage", phone: "not-a-number", provider: "airtel", wantCode: constvars.ErrCodeValidation},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newUsecaseFixture()
			request := &requests.InitiatePayment{
				PatientID:           "patient-1",
				PayeeID:             "doctor-1",
				Amount:              decimal.RequireFromString("50"),
				PaymentMethod:       string(models.PaymentMethodMobileMoney),
				Purpose:             string(models.PaymentPurposeConsultation),
				PhoneNumber:         tc.phone,
				MobileMoneyProvider: tc.provider,
			}

			response, err := f.usecase.InitiatePayment(ctx, request)
			if tc.wantCode != "" {
				assert.True(t, exceptions.HasCode(err, tc.wantCode), "got %v", err)
				assert.Equal(t, 0, f.repo.inserts)
				assert.Equal(t, 0, f.mobileMoney.initiateCalls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantPhone, response.Payment.PhoneNumber)
			assert.Equal(t, 1, f.mobileMoney.initiateCalls)
		})
	}
}

func createPending(t *testing.T, f *usecaseFixture, externalRef string) string {
	t.Helper()
	f.card.initiateResult = &contracts.GatewayResult{ExternalReference: externalRef, Status: models.PaymentStatusPending}
	response, err := f.usecase.InitiatePayment(context.Background(), cardRequest(models.PaymentPurposeConsultation))
	require.NoError(t, err)
	return response.Payment.ID
}

func TestPaymentUsecase_CapturePayment(t *testing.T) {
	ctx := patientCtx

	t.Run("Capture is idempotent", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := createPending(t, f, "pi_1")

		first, err := f.usecase.CapturePayment(ctx, &requests.CapturePayment{PaymentID: paymentID})
		require.NoError(t, err)
		assert.Equal(t, string(models.PaymentStatusCompleted), first.Status)
		assert.Equal(t, "pi_1", f.card.lastCaptureRef)

		second, err := f.usecase.CapturePayment(ctx, &requests.CapturePayment{PaymentID: paymentID})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Len(t, second.StatusHistory, 2)
		assert.Equal(t, 1, f.card.captureCalls)
		assert.Equal(t, 1, f.locker.unlocks)
	})

	t.Run("Held lock is a conflict and skips the gateway", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := createPending(t, f, "pi_1")
		f.locker.held[fmt.Sprintf(constvars.RedisKeyPaymentCaptureLock, paymentID)] = true

		_, err := f.usecase.CapturePayment(ctx, &requests.CapturePayment{PaymentID: paymentID})
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodeTransitionConflict))
		assert.Equal(t, 0, f.card.captureCalls)
		assert.Equal(t, models.PaymentStatusPending, f.repo.status(paymentID))
	})

	t.Run("Gateway still pending leaves the payment alone", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := createPending(t, f, "pi_1")
		f.card.captureResult = &contracts.GatewayResult{Status: models.PaymentStatusPending}

		response, err := f.usecase.CapturePayment(ctx, &requests.CapturePayment{PaymentID: paymentID})
		require.NoError(t, err)
		assert.Equal(t, string(models.PaymentStatusPending), response.Status)
	})

	t.Run("Gateway decline fails the payment", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := createPending(t, f, "pi_1")
		f.card.captureErr = exceptions.ErrGatewayDeclined("card", "insufficient funds")

		_, err := f.usecase.CapturePayment(ctx, &requests.CapturePayment{PaymentID: paymentID})
		require.Error(t, err)
		assert.Equal(t, models.PaymentStatusFailed, f.repo.status(paymentID))

		_, err = f.usecase.CapturePayment(ctx, &requests.CapturePayment{PaymentID: paymentID})
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodeInvalidTransition))
		assert.Equal(t, 1, f.card.captureCalls)
	})

	t.Run("Missing payment", func(t *testing.T) {
		f := newUsecaseFixture()
		_, err := f.usecase.CapturePayment(ctx, &requests.CapturePayment{PaymentID: "nope"})
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodePaymentNotFound))
	})
}

func TestPaymentUsecase_RefundPayment(t *testing.T) {
	ctx := payeeCtx

	completedPayment := func(t *testing.T, f *usecaseFixture) string {
		paymentID := createPending(t, f, "pi_1")
		_, err := f.usecase.CapturePayment(patientCtx, &requests.CapturePayment{PaymentID: paymentID})
		require.NoError(t, err)
		return paymentID
	}

	t.Run("Partial refund", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := completedPayment(t, f)
		amount := decimal.RequireFromString("40")

		response, err := f.usecase.RefundPayment(ctx, &requests.RefundPayment{PaymentID: paymentID, Amount: &amount, Reason: "partial"})
		require.NoError(t, err)
		assert.Equal(t, string(models.PaymentStatusRefunded), response.Status)
		assert.Equal(t, "40.00", response.RefundAmount)
		assert.Equal(t, 1, f.card.refundCalls)
	})

	t.Run("Gateway refund failure keeps the payment completed", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := completedPayment(t, f)
		f.card.refundErr = errGatewayDown

		_, err := f.usecase.RefundPayment(ctx, &requests.RefundPayment{PaymentID: paymentID, Reason: "cancelled"})
		require.Error(t, err)
		assert.Equal(t, models.PaymentStatusCompleted, f.repo.status(paymentID))
	})

	t.Run("Pending payments cannot be refunded", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := createPending(t, f, "pi_1")

		_, err := f.usecase.RefundPayment(ctx, &requests.RefundPayment{PaymentID: paymentID, Reason: "cancelled"})
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodeInvalidTransition))
		assert.Equal(t, 0, f.card.refundCalls)
	})

	t.Run("Over refund is rejected before the gateway", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := completedPayment(t, f)
		amount := decimal.RequireFromString("150.01")

		_, err := f.usecase.RefundPayment(ctx, &requests.RefundPayment{PaymentID: paymentID, Amount: &amount, Reason: "too much"})
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodeValidation))
		assert.Equal(t, 0, f.card.refundCalls)
	})
}

func TestPaymentUsecase_HandleCallback(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful status settles without calling the gateway", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := createPending(t, f, "pi_1")

		response, err := f.usecase.HandleCallback(ctx, &requests.PaymentCallback{
			PaymentMethod:     string(models.PaymentMethodCard),
			PaymentID:         paymentID,
			ExternalReference: "ch_1",
			Status:            "succeeded",
		})
		require.NoError(t, err)
		assert.Equal(t, string(models.PaymentStatusCompleted), response.Status)
		assert.Equal(t, "ch_1", response.ExternalPaymentID)
		assert.Equal(t, 0, f.card.captureCalls)
	})

	t.Run("Approval triggers a capture without a signed-in user", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := createPending(t, f, "order_1")

		response, err := f.usecase.HandleCallback(ctx, &requests.PaymentCallback{
			PaymentMethod: string(models.PaymentMethodCard),
			PaymentID:     paymentID,
			Status:        constvars.PayPalStatusApproved,
		})
		require.NoError(t, err)
		assert.Equal(t, string(models.PaymentStatusCompleted), response.Status)
		assert.Equal(t, 1, f.card.captureCalls)
	})

	t.Run("Failure status fails a pending payment", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := createPending(t, f, "pi_1")

		response, err := f.usecase.HandleCallback(ctx, &requests.PaymentCallback{
			PaymentMethod: string(models.PaymentMethodCard),
			PaymentID:     paymentID,
			Status:        constvars.MobileMoneyStatusRejected,
			Reason:        "payer rejected",
		})
		require.NoError(t, err)
		assert.Equal(t, string(models.PaymentStatusFailed), response.Status)
		assert.Equal(t, "payer rejected", response.StatusHistory[len(response.StatusHistory)-1].Reason)
	})

	t.Run("Late failure after completion is ignored", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := createPending(t, f, "pi_1")
		_, err := f.usecase.CapturePayment(patientCtx, &requests.CapturePayment{PaymentID: paymentID})
		require.NoError(t, err)

		response, err := f.usecase.HandleCallback(ctx, &requests.PaymentCallback{
			PaymentMethod: string(models.PaymentMethodCard),
			PaymentID:     paymentID,
			Status:        constvars.MobileMoneyStatusFailed,
		})
		require.NoError(t, err)
		assert.Equal(t, string(models.PaymentStatusCompleted), response.Status)
	})

	t.Run("Callback for another method is rejected", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := createPending(t, f, "pi_1")

		_, err := f.usecase.HandleCallback(ctx, &requests.PaymentCallback{
			PaymentMethod: string(models.PaymentMethodMobileMoney),
			PaymentID:     paymentID,
			Status:        constvars.MobileMoneyStatusSuccessful,
		})
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodeValidation))
		assert.Equal(t, models.PaymentStatusPending, f.repo.status(paymentID))
	})

	t.Run("Non final status changes nothing", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := createPending(t, f, "pi_1")

		response, err := f.usecase.HandleCallback(ctx, &requests.PaymentCallback{
			PaymentMethod: string(models.PaymentMethodCard),
			PaymentID:     paymentID,
			Status:        constvars.MobileMoneyStatusPending,
		})
		require.NoError(t, err)
		assert.Equal(t, string(models.PaymentStatusPending), response.Status)
	})
}

func TestPaymentUsecase_GetPaymentReceipt(t *testing.T) {
	ctx := patientCtx
	f := newUsecaseFixture()
	paymentID := createPending(t, f, "pi_1")

	_, err := f.usecase.GetPaymentReceipt(ctx, paymentID)
	assert.True(t, exceptions.HasCode(err, constvars.ErrCodePaymentNotFound))

	_, err = f.usecase.CapturePayment(ctx, &requests.CapturePayment{PaymentID: paymentID})
	require.NoError(t, err)

	receipt, err := f.usecase.GetPaymentReceipt(ctx, paymentID)
	require.NoError(t, err)
	assert.Equal(t, paymentID, receipt.PaymentID)
	assert.Contains(t, receipt.URL, paymentID)
}

func TestPaymentUsecase_Ownership(t *testing.T) {
	strangerCtx := sessionContext("patient-2", constvars.DocOClockRolePatient)
	otherDoctorCtx := sessionContext("doctor-99", constvars.DocOClockRoleProvider)
	adminCtx := sessionContext("admin-1", constvars.DocOClockRoleAdmin)

	t.Run("Patient and payee can read, strangers cannot", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := createPending(t, f, "pi_1")

		for _, ctx := range []context.Context{patientCtx, payeeCtx, adminCtx} {
			response, err := f.usecase.GetPayment(ctx, paymentID)
			require.NoError(t, err)
			assert.Equal(t, paymentID, response.ID)
		}

		for _, ctx := range []context.Context{strangerCtx, otherDoctorCtx, context.Background()} {
			_, err := f.usecase.GetPayment(ctx, paymentID)
			assert.True(t, exceptions.HasCode(err, constvars.ErrCodePaymentNotFound))
		}
	})

	t.Run("Only the patient captures", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := createPending(t, f, "pi_1")

		for _, ctx := range []context.Context{strangerCtx, payeeCtx} {
			_, err := f.usecase.CapturePayment(ctx, &requests.CapturePayment{PaymentID: paymentID})
			assert.True(t, exceptions.HasCode(err, constvars.ErrCodePaymentNotFound))
		}
		assert.Zero(t, f.card.captureCalls)
		assert.Equal(t, models.PaymentStatusPending, f.repo.status(paymentID))

		_, err := f.usecase.CapturePayment(adminCtx, &requests.CapturePayment{PaymentID: paymentID})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusCompleted, f.repo.status(paymentID))
	})

	t.Run("Only the payee refunds", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := createPending(t, f, "pi_1")
		_, err := f.usecase.CapturePayment(patientCtx, &requests.CapturePayment{PaymentID: paymentID})
		require.NoError(t, err)

		for _, ctx := range []context.Context{patientCtx, otherDoctorCtx} {
			_, err := f.usecase.RefundPayment(ctx, &requests.RefundPayment{PaymentID: paymentID, Reason: "cancelled"})
			assert.True(t, exceptions.HasCode(err, constvars.ErrCodePaymentNotFound))
		}
		assert.Zero(t, f.card.refundCalls)
		assert.Equal(t, models.PaymentStatusCompleted, f.repo.status(paymentID))

		response, err := f.usecase.RefundPayment(payeeCtx, &requests.RefundPayment{PaymentID: paymentID, Reason: "cancelled"})
		require.NoError(t, err)
		assert.Equal(t, string(models.PaymentStatusRefunded), response.Status)
		assert.Equal(t, "doctor-1", response.StatusHistory[len(response.StatusHistory)-1].UpdatedBy)
	})

	t.Run("Receipts follow read access", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := createPending(t, f, "pi_1")
		_, err := f.usecase.CapturePayment(patientCtx, &requests.CapturePayment{PaymentID: paymentID})
		require.NoError(t, err)

		_, err = f.usecase.GetPaymentReceipt(strangerCtx, paymentID)
		assert.True(t, exceptions.HasCode(err, constvars.ErrCodePaymentNotFound))

		receipt, err := f.usecase.GetPaymentReceipt(payeeCtx, paymentID)
		require.NoError(t, err)
		assert.Equal(t, paymentID, receipt.PaymentID)
	})
}

func TestPaymentUsecase_WalletCreditRecovery(t *testing.T) {
	topUp := func(t *testing.T, f *usecaseFixture) string {
		t.Helper()
		f.card.initiateResult = &contracts.GatewayResult{ExternalReference: "pi_1", Status: models.PaymentStatusPending}
		response, err := f.usecase.InitiatePayment(patientCtx, cardRequest(models.PaymentPurposeWalletTopUp))
		require.NoError(t, err)
		return response.Payment.ID
	}

	t.Run("Successful credit is recorded on the payment", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := topUp(t, f)

		_, err := f.usecase.CapturePayment(patientCtx, &requests.CapturePayment{PaymentID: paymentID})
		require.NoError(t, err)
		require.Len(t, f.wallet.credits, 1)
		assert.True(t, f.repo.credited(paymentID))

		credited, err := f.usecase.ReconcileWalletCredits(context.Background())
		require.NoError(t, err)
		assert.Zero(t, credited)
		assert.Len(t, f.wallet.credits, 1)
	})

	t.Run("Reconciler replays a credit the wallet refused", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := topUp(t, f)
		f.wallet.err = assert.AnError

		_, err := f.usecase.CapturePayment(patientCtx, &requests.CapturePayment{PaymentID: paymentID})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusCompleted, f.repo.status(paymentID))
		assert.False(t, f.repo.credited(paymentID))

		credited, err := f.usecase.ReconcileWalletCredits(context.Background())
		require.NoError(t, err)
		assert.Zero(t, credited, "wallet still down")
		assert.False(t, f.repo.credited(paymentID))

		f.wallet.err = nil
		credited, err = f.usecase.ReconcileWalletCredits(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, credited)
		assert.True(t, f.repo.credited(paymentID))
		require.Len(t, f.wallet.credits, 3)
		assert.Equal(t, paymentID, f.wallet.credits[2].ReferenceID)
		assert.Equal(t, "patient-1", f.wallet.credits[2].UserID)
	})

	t.Run("Repeated capture retries a missing credit", func(t *testing.T) {
		f := newUsecaseFixture()
		paymentID := topUp(t, f)
		f.wallet.err = assert.AnError

		_, err := f.usecase.CapturePayment(patientCtx, &requests.CapturePayment{PaymentID: paymentID})
		require.NoError(t, err)
		assert.False(t, f.repo.credited(paymentID))

		f.wallet.err = nil
		_, err = f.usecase.CapturePayment(patientCtx, &requests.CapturePayment{PaymentID: paymentID})
		require.NoError(t, err)
		assert.True(t, f.repo.credited(paymentID))
		assert.Equal(t, 1, f.card.captureCalls)
	})

	t.Run("Refunded and consultation payments are left alone", func(t *testing.T) {
		f := newUsecaseFixture()
		f.wallet.err = assert.AnError
		refundedID := topUp(t, f)
		_, err := f.usecase.CapturePayment(patientCtx, &requests.CapturePayment{PaymentID: refundedID})
		require.NoError(t, err)
		_, err = f.usecase.RefundPayment(payeeCtx, &requests.RefundPayment{PaymentID: refundedID, Reason: "cancelled"})
		require.NoError(t, err)

		consultationID := createPending(t, f, "pi_2")
		_, err = f.usecase.CapturePayment(patientCtx, &requests.CapturePayment{PaymentID: consultationID})
		require.NoError(t, err)

		f.wallet.err = nil
		credits := len(f.wallet.credits)
		credited, err := f.usecase.ReconcileWalletCredits(context.Background())
		require.NoError(t, err)
		assert.Zero(t, credited)
		assert.Len(t, f.wallet.credits, credits)
	})
}
