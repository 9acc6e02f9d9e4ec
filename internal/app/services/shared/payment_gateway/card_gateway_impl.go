package payment_gateway

import (
	"context"
	"fmt"
	"net/http"

	"dococlock-service/internal/app/config"
	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type cardGateway struct {
	BaseUrl   string
	ApiKey    string
	transport *gatewayTransport
	Log       *zap.Logger
}

type cardChargeRequest struct {
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Source      string            `json:"source"`
	Description string            `json:"description,omitempty"`
	ReturnURL   string            `json:"return_url,omitempty"`
	Capture     bool              `json:"capture"`
	Metadata    map[string]string `json:"metadata"`
}

type cardRefundRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

type cardChargeResponse struct {
	ID             string `json:"id"`
	Status         string `json:"status"`
	FailureMessage string `json:"failure_message"`
	NextActionURL  string `json:"next_action_url"`
}

func NewCardGateway(cfg config.AppCardGateway, opts Options, logger *zap.Logger) contracts.PaymentGateway {
	return &cardGateway{
		BaseUrl:   cfg.BaseUrl,
		ApiKey:    cfg.ApiKey,
		transport: newGatewayTransport(constvars.PaymentGatewayCard, opts, logger),
		Log:       logger,
	}
}

func (g *cardGateway) Method() models.PaymentMethod {
	return models.PaymentMethodCard
}

func (g *cardGateway) Initiate(ctx context.Context, input *contracts.GatewayInitiateInput) (*contracts.GatewayResult, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("cardGateway.Initiate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, input.Payment.ID),
	)

	charge := new(cardChargeResponse)
	err := g.transport.do(ctx, gatewayRequest{
		method:  http.MethodPost,
		url:     joinURL(g.BaseUrl, constvars.CardChargesPath),
		headers: g.headers(input.Payment.ID),
		body: cardChargeRequest{
			Amount:      toMinorUnits(input.Payment.Amount),
			Currency:    input.Payment.Currency,
			Source:      input.CardToken,
			Description: input.Description,
			ReturnURL:   input.ReturnURL,
			Metadata:    map[string]string{"payment_id": input.Payment.ID},
		},
	}, charge)
	if err != nil {
		g.Log.Error("cardGateway.Initiate error creating charge",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	return g.toResult(charge)
}

func (g *cardGateway) Capture(ctx context.Context, payment *models.Payment, externalReference string) (*contracts.GatewayResult, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("cardGateway.Capture called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, payment.ID),
		zap.String(constvars.LoggingExternalRefKey, externalReference),
	)

	charge := new(cardChargeResponse)
	err := g.transport.do(ctx, gatewayRequest{
		method:  http.MethodPost,
		url:     joinURL(g.BaseUrl, fmt.Sprintf(constvars.CardChargeCapturePath, externalReference)),
		headers: g.headers("capture-" + payment.ID),
	}, charge)
	if err != nil {
		g.Log.Error("cardGateway.Capture error capturing charge",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	return g.toResult(charge)
}

func (g *cardGateway) Refund(ctx context.Context, input *contracts.GatewayRefundInput) (*contracts.GatewayResult, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("cardGateway.Refund called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, input.Payment.ID),
	)

	refund := new(cardChargeResponse)
	err := g.transport.do(ctx, gatewayRequest{
		method:  http.MethodPost,
		url:     joinURL(g.BaseUrl, fmt.Sprintf(constvars.CardChargeRefundPath, input.Payment.ExternalPaymentID)),
		headers: g.headers("refund-" + input.Payment.ID),
		body: cardRefundRequest{
			Amount: toMinorUnits(input.Amount),
			Reason: input.Reason,
		},
	}, refund)
	if err != nil {
		g.Log.Error("cardGateway.Refund error refunding charge",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if refund.Status == constvars.CardStatusFailed {
		return nil, exceptions.ErrGatewayDeclined(constvars.PaymentGatewayCard, refund.FailureMessage)
	}

	return &contracts.GatewayResult{
		ExternalReference: refund.ID,
		Status:            models.PaymentStatusRefunded,
	}, nil
}

func (g *cardGateway) headers(idempotencyKey string) map[string]string {
	return map[string]string{
		constvars.HeaderAuthorization:  "Bearer " + g.ApiKey,
		constvars.HeaderIdempotencyKey: idempotencyKey,
	}
}

func (g *cardGateway) toResult(charge *cardChargeResponse) (*contracts.GatewayResult, error) {
	result := &contracts.GatewayResult{
		ExternalReference: charge.ID,
		PaymentURL:        charge.NextActionURL,
		Message:           charge.Status,
	}
	switch charge.Status {
	case constvars.CardStatusSucceeded:
		result.Status = models.PaymentStatusCompleted
	case constvars.CardStatusRequiresAction, constvars.CardStatusProcessing:
		result.Status = models.PaymentStatusPending
	default:
		reason := charge.FailureMessage
		if reason == "" {
			reason = charge.Status
		}
		return nil, exceptions.ErrGatewayDeclined(constvars.PaymentGatewayCard, reason)
	}
	return result, nil
}
