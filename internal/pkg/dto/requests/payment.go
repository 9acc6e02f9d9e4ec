package requests

import "github.com/shopspring/decimal"

type InitiatePayment struct {
	PatientID           string          `json:"-"`
	PayeeID             string          `json:"payee_id" validate:"required"`
	Amount              decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Currency            string          `json:"currency" validate:"omitempty,len=3,uppercase"`
	PaymentMethod       string          `json:"payment_method" validate:"required,payment_method"`
	Purpose             string          `json:"purpose" validate:"required,oneof=consultation appointment wallet_topup subscription"`
	Description         string          `json:"description" validate:"omitempty,max=255"`
	PhoneNumber         string          `json:"phone_number" validate:"required_if=PaymentMethod mobile_money,omitempty,zm_phone"`
	MobileMoneyProvider string          `json:"mobile_money_provider" validate:"required_if=PaymentMethod mobile_money,omitempty,oneof=mtn airtel zamtel"`
	CardToken           string          `json:"card_token" validate:"required_if=PaymentMethod card"`
	ReturnURL           string          `json:"return_url" validate:"omitempty,url"`
}

type CapturePayment struct {
	PaymentID         string `json:"-"`
	ExternalReference string `json:"external_reference"`
}

type RefundPayment struct {
	PaymentID string           `json:"-"`
	Amount    *decimal.Decimal `json:"amount"`
	Reason    string           `json:"reason" validate:"required,max=500"`
}

// PaymentCallback is the normalized body gateways (or the edge wrappers in front of them)
// post once a payment settles.
type PaymentCallback struct {
	PaymentMethod     string `json:"-"`
	PaymentID         string `json:"payment_id" validate:"required"`
	ExternalReference string `json:"external_reference"`
	Status            string `json:"status" validate:"required"`
	Reason            string `json:"reason"`
}
