package contracts

import (
	"context"

	"dococlock-service/internal/app/models"

	"github.com/shopspring/decimal"
)

type GatewayInitiateInput struct {
	Payment     *models.Payment
	CardToken   string
	ReturnURL   string
	Description string
}

// GatewayResult is what every gateway call boils down to: an outcome plus the gateway's
// own reference. Status is pending while the payer still has to act.
type GatewayResult struct {
	ExternalReference string
	Status            models.PaymentStatus
	PaymentURL        string
	Message           string
}

type GatewayRefundInput struct {
	Payment *models.Payment
	Amount  decimal.Decimal
	Reason  string
}

// PaymentGateway is implemented once per payment method. Declines, network failures and
// timeouts all come back as an error.
type PaymentGateway interface {
	Method() models.PaymentMethod
	Initiate(ctx context.Context, input *GatewayInitiateInput) (*GatewayResult, error)
	Capture(ctx context.Context, payment *models.Payment, externalReference string) (*GatewayResult, error)
	Refund(ctx context.Context, input *GatewayRefundInput) (*GatewayResult, error)
}
