package payments

import (
	"context"
	"sort"
	"sync"
	"time"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"
)

type memoryPaymentRepository struct {
	mu            sync.Mutex
	payments      map[string]*models.Payment
	inserts       int
	applyCalls    int
	forceConflict bool
	insertErr     error
	markErr       error
}

func newMemoryPaymentRepository() *memoryPaymentRepository {
	return &memoryPaymentRepository{payments: make(map[string]*models.Payment)}
}

func (r *memoryPaymentRepository) Insert(ctx context.Context, payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserts++
	r.payments[payment.ID] = payment.Clone()
	return nil
}

func (r *memoryPaymentRepository) FindByID(ctx context.Context, paymentID string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[paymentID]
	if !ok {
		return nil, nil
	}
	return payment.Clone(), nil
}

func (r *memoryPaymentRepository) FindByExternalID(ctx context.Context, externalPaymentID string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, payment := range r.payments {
		if payment.ExternalPaymentID == externalPaymentID {
			return payment.Clone(), nil
		}
	}
	return nil, nil
}

func (r *memoryPaymentRepository) ApplyTransition(ctx context.Context, update *models.PaymentUpdate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applyCalls++
	if r.forceConflict {
		return false, nil
	}
	payment, ok := r.payments[update.PaymentID]
	if !ok || payment.Status != update.ExpectedStatus || len(payment.StatusHistory) != update.ExpectedHistoryLength {
		return false, nil
	}
	payment.Status = update.Status
	payment.StatusHistory = append(payment.StatusHistory, update.Entry)
	payment.UpdatedAt = update.UpdatedAt
	if update.RefundAmount != nil {
		refundAmount := *update.RefundAmount
		payment.RefundAmount = &refundAmount
		payment.RefundReason = update.RefundReason
	}
	return true, nil
}

func (r *memoryPaymentRepository) SetExternalPaymentID(ctx context.Context, paymentID, externalPaymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment, ok := r.payments[paymentID]; ok {
		payment.ExternalPaymentID = externalPaymentID
	}
	return nil
}

func (r *memoryPaymentRepository) MarkWalletCredited(ctx context.Context, paymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		return r.markErr
	}
	if payment, ok := r.payments[paymentID]; ok {
		payment.WalletCredited = true
	}
	return nil
}

func (r *memoryPaymentRepository) FindUncreditedTopUps(ctx context.Context, limit int) ([]*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found []*models.Payment
	for _, payment := range r.payments {
		if payment.Purpose == models.PaymentPurposeWalletTopUp && payment.Status == models.PaymentStatusCompleted && !payment.WalletCredited {
			found = append(found, payment.Clone())
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].UpdatedAt.Before(found[j].UpdatedAt) })
	if len(found) > limit {
		found = found[:limit]
	}
	return found, nil
}

func (r *memoryPaymentRepository) credited(paymentID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payments[paymentID].WalletCredited
}

func (r *memoryPaymentRepository) status(paymentID string) models.PaymentStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.payments[paymentID].Status
}

type fakeGateway struct {
	method         models.PaymentMethod
	initiateResult *contracts.GatewayResult
	initiateErr    error
	captureResult  *contracts.GatewayResult
	captureErr     error
	refundErr      error

	mu             sync.Mutex
	initiateCalls  int
	captureCalls   int
	refundCalls    int
	lastCaptureRef string
}

func (g *fakeGateway) Method() models.PaymentMethod { return g.method }

func (g *fakeGateway) Initiate(ctx context.Context, input *contracts.GatewayInitiateInput) (*contracts.GatewayResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.initiateCalls++
	if g.initiateErr != nil {
		return nil, g.initiateErr
	}
	if g.initiateResult == nil {
		return &contracts.GatewayResult{Status: models.PaymentStatusPending}, nil
	}
	return g.initiateResult, nil
}

func (g *fakeGateway) Capture(ctx context.Context, payment *models.Payment, externalReference string) (*contracts.GatewayResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.captureCalls++
	g.lastCaptureRef = externalReference
	if g.captureErr != nil {
		return nil, g.captureErr
	}
	if g.captureResult == nil {
		return &contracts.GatewayResult{Status: models.PaymentStatusCompleted, ExternalReference: externalReference}, nil
	}
	return g.captureResult, nil
}

func (g *fakeGateway) Refund(ctx context.Context, input *contracts.GatewayRefundInput) (*contracts.GatewayResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refundCalls++
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	return &contracts.GatewayResult{Status: models.PaymentStatusRefunded}, nil
}

type fakeLocker struct {
	held    map[string]bool
	unlocks int
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (l *fakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	if l.held[key] {
		return false, "", nil
	}
	l.held[key] = true
	return true, "lock-value", nil
}

func (l *fakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	l.unlocks++
	delete(l.held, key)
	return nil
}

type fakeWallet struct {
	credits []*models.WalletCredit
	err     error
}

func (w *fakeWallet) CreditWallet(ctx context.Context, credit *models.WalletCredit) error {
	w.credits = append(w.credits, credit)
	return w.err
}

func (w *fakeWallet) RetryFailed(ctx context.Context) (int, error) { return 0, nil }

type fakeReceipts struct {
	stored []string
	err    error
}

func (s *fakeReceipts) StoreReceipt(ctx context.Context, payment *models.Payment) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.stored = append(s.stored, payment.ID)
	return payment.ID + ".json", nil
}

func (s *fakeReceipts) GetReceiptURL(ctx context.Context, paymentID string) (string, time.Time, error) {
	return "https://receipts.example.com/" + paymentID, time.Now().Add(time.Hour), nil
}

var errGatewayDown = exceptions.ErrGatewayRequest(context.DeadlineExceeded, "fake")

func sessionContext(userID string, roles ...string) context.Context {
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_UID_KEY, userID)
	return context.WithValue(ctx, constvars.CONTEXT_ROLES_KEY, roles)
}

var (
	patientCtx = sessionContext("patient-1", constvars.DocOClockRolePatient)
	payeeCtx   = sessionContext("doctor-1", constvars.DocOClockRoleProvider)
)
