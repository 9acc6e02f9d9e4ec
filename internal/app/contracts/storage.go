package contracts

import (
	"context"
	"time"

	"dococlock-service/internal/app/models"
)

type ReceiptStorage interface {
	StoreReceipt(ctx context.Context, payment *models.Payment) (string, error)
	GetReceiptURL(ctx context.Context, paymentID string) (string, time.Time, error)
}
