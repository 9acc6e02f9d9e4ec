package contracts

import (
	"context"

	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/dto/requests"
	"dococlock-service/internal/pkg/dto/responses"
)

type PaymentRepository interface {
	Insert(ctx context.Context, payment *models.Payment) error
	// FindByID returns nil, nil when no payment has the id.
	FindByID(ctx context.Context, paymentID string) (*models.Payment, error)
	FindByExternalID(ctx context.Context, externalPaymentID string) (*models.Payment, error)
	// ApplyTransition writes update only if the stored status and history length still match
	// what the caller observed. It reports false when they no longer do.
	ApplyTransition(ctx context.Context, update *models.PaymentUpdate) (bool, error)
	SetExternalPaymentID(ctx context.Context, paymentID, externalPaymentID string) error
	MarkWalletCredited(ctx context.Context, paymentID string) error
	// FindUncreditedTopUps returns completed wallet top ups whose credit was never
	// recorded, oldest first.
	FindUncreditedTopUps(ctx context.Context, limit int) ([]*models.Payment, error)
}

type PaymentLedger interface {
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	Get(ctx context.Context, paymentID string) (*models.Payment, error)
	Transition(ctx context.Context, transition *models.PaymentTransition) (*models.Payment, error)
	AttachExternalReference(ctx context.Context, paymentID, externalPaymentID string) error
	MarkWalletCredited(ctx context.Context, paymentID string) error
	ListUncreditedTopUps(ctx context.Context, limit int) ([]*models.Payment, error)
}

// WalletCreditReconciler replays wallet credits for top ups that completed without one.
type WalletCreditReconciler interface {
	ReconcileWalletCredits(ctx context.Context) (int, error)
}

type PaymentUsecase interface {
	InitiatePayment(ctx context.Context, request *requests.InitiatePayment) (*responses.InitiatePayment, error)
	GetPayment(ctx context.Context, paymentID string) (*responses.Payment, error)
	CapturePayment(ctx context.Context, request *requests.CapturePayment) (*responses.Payment, error)
	RefundPayment(ctx context.Context, request *requests.RefundPayment) (*responses.Payment, error)
	HandleCallback(ctx context.Context, request *requests.PaymentCallback) (*responses.Payment, error)
	GetPaymentReceipt(ctx context.Context, paymentID string) (*responses.PaymentReceipt, error)
	WalletCreditReconciler
}
