package contracts

import (
	"context"

	"dococlock-service/internal/app/models"
)

type WalletService interface {
	CreditWallet(ctx context.Context, credit *models.WalletCredit) error
	// RetryFailed republishes credits that could not be published earlier and returns how
	// many went out.
	RetryFailed(ctx context.Context) (int, error)
}
