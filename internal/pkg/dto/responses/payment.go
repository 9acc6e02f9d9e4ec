package responses

import "time"

type StatusHistoryEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty"`
}

type Payment struct {
	ID                  string               `json:"id"`
	PatientID           string               `json:"patient_id"`
	PayeeID             string               `json:"payee_id"`
	Amount              string               `json:"amount"`
	Currency            string               `json:"currency"`
	Status              string               `json:"status"`
	PaymentMethod       string               `json:"payment_method"`
	Purpose             string               `json:"purpose"`
	ExternalPaymentID   string               `json:"external_payment_id,omitempty"`
	PhoneNumber         string               `json:"phone_number,omitempty"`
	MobileMoneyProvider string               `json:"mobile_money_provider,omitempty"`
	RefundAmount        string               `json:"refund_amount,omitempty"`
	RefundReason        string               `json:"refund_reason,omitempty"`
	StatusHistory       []StatusHistoryEntry `json:"status_history"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

type InitiatePayment struct {
	Payment    Payment `json:"payment"`
	PaymentURL string  `json:"payment_url,omitempty"`
	// DirectResult is set when the gateway answered synchronously instead of redirecting.
	DirectResult string `json:"direct_result,omitempty"`
}

type PaymentReceipt struct {
	PaymentID string    `json:"payment_id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
