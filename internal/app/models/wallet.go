package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletCredit is the message handed to the wallet ledger. ReferenceID is the payment id
// and makes the credit idempotent downstream.
type WalletCredit struct {
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	ReferenceID string          `json:"reference_id"`
	CreatedAt   time.Time       `json:"created_at"`
}
