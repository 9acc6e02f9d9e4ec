package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

var PaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusCompleted,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

// paymentTransitions is the complete table of allowed status changes. failed and refunded
// are terminal.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:   {PaymentStatusCompleted, PaymentStatusFailed},
	PaymentStatusCompleted: {PaymentStatusRefunded},
	PaymentStatusFailed:    {},
	PaymentStatusRefunded:  {},
}

func IsValidTransition(current, next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[current] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PaymentStatus) IsTerminal() bool {
	return len(paymentTransitions[s]) == 0
}

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
	PaymentMethodPayPal       PaymentMethod = "paypal"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

type PaymentPurpose string

const (
	PaymentPurposeConsultation PaymentPurpose = "consultation"
	PaymentPurposeAppointment  PaymentPurpose = "appointment"
	PaymentPurposeWalletTopUp  PaymentPurpose = "wallet_topup"
	PaymentPurposeSubscription PaymentPurpose = "subscription"
)

type StatusHistoryEntry struct {
	Status    PaymentStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	Reason    string        `json:"reason,omitempty"`
	UpdatedBy string        `json:"updated_by,omitempty"`
}

type Payment struct {
	ID                  string
	PatientID           string
	PayeeID             string
	Amount              decimal.Decimal
	Currency            string
	Status              PaymentStatus
	PaymentMethod       PaymentMethod
	Purpose             PaymentPurpose
	Description         string
	ExternalPaymentID   string
	PhoneNumber         string
	MobileMoneyProvider MobileMoneyProvider
	StatusHistory       []StatusHistoryEntry
	RefundAmount        *decimal.Decimal
	RefundReason        string
	// WalletCredited is set once a top up's credit has been handed to the wallet service.
	WalletCredited bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PaymentTransition is a request to move one payment to Next. RefundAmount and
// RefundReason are only read for a refund.
type PaymentTransition struct {
	PaymentID    string
	Next         PaymentStatus
	Actor        string
	Reason       string
	RefundAmount *decimal.Decimal
}

// PaymentUpdate is the write the ledger hands to its store: the new state plus the
// status and history length it observed, which the store must match before writing.
type PaymentUpdate struct {
	PaymentID             string
	ExpectedStatus        PaymentStatus
	ExpectedHistoryLength int
	Status                PaymentStatus
	Entry                 StatusHistoryEntry
	RefundAmount          *decimal.Decimal
	RefundReason          string
	UpdatedAt             time.Time
}

// Clone returns a copy whose history slice can be appended to without touching p.
func (p *Payment) Clone() *Payment {
	clone := *p
	clone.StatusHistory = append([]StatusHistoryEntry(nil), p.StatusHistory...)
	if p.RefundAmount != nil {
		refundAmount := *p.RefundAmount
		clone.RefundAmount = &refundAmount
	}
	return &clone
}
