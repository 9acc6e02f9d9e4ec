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

type mobileMoneyGateway struct {
	cfg       config.AppMobileMoneyGateway
	transport *gatewayTransport
	Log       *zap.Logger
}

type mobileMoneyCollectionRequest struct {
	Reference   string `json:"reference"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	PhoneNumber string `json:"phone_number"`
	Provider    string `json:"provider"`
	Narration   string `json:"narration,omitempty"`
}

type mobileMoneyRefundRequest struct {
	Amount string `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

type mobileMoneyCollectionResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Reason        string `json:"reason"`
}

func NewMobileMoneyGateway(cfg config.AppMobileMoneyGateway, opts Options, logger *zap.Logger) contracts.PaymentGateway {
	return &mobileMoneyGateway{
		cfg:       cfg,
		transport: newGatewayTransport(constvars.PaymentGatewayMobileMoney, opts, logger),
		Log:       logger,
	}
}

func (g *mobileMoneyGateway) Method() models.PaymentMethod {
	return models.PaymentMethodMobileMoney
}

// Initiate sends a collection request to the payer's handset. The phone number must
// already be normalized to 260XXXXXXXXX.
func (g *mobileMoneyGateway) Initiate(ctx context.Context, input *contracts.GatewayInitiateInput) (*contracts.GatewayResult, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("mobileMoneyGateway.Initiate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, input.Payment.ID),
	)

	collection := new(mobileMoneyCollectionResponse)
	err := g.transport.do(ctx, gatewayRequest{
		method:  http.MethodPost,
		url:     joinURL(g.cfg.BaseUrl, constvars.MobileMoneyCollectionsPath),
		headers: g.headers(input.Payment.ID),
		body: mobileMoneyCollectionRequest{
			Reference:   input.Payment.ID,
			Amount:      input.Payment.Amount.StringFixed(2),
			Currency:    input.Payment.Currency,
			PhoneNumber: input.Payment.PhoneNumber,
			Provider:    string(input.Payment.MobileMoneyProvider),
			Narration:   input.Description,
		},
	}, collection)
	if err != nil {
		g.Log.Error("mobileMoneyGateway.Initiate error requesting collection",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if collection.TransactionID == "" {
		collection.TransactionID = input.Payment.ID
	}

	return g.toResult(collection)
}

// Capture polls the collection; mobile money settles on the handset, not on our call.
func (g *mobileMoneyGateway) Capture(ctx context.Context, payment *models.Payment, externalReference string) (*contracts.GatewayResult, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("mobileMoneyGateway.Capture called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, payment.ID),
		zap.String(constvars.LoggingExternalRefKey, externalReference),
	)

	collection := new(mobileMoneyCollectionResponse)
	err := g.transport.do(ctx, gatewayRequest{
		method:  http.MethodGet,
		url:     joinURL(g.cfg.BaseUrl, fmt.Sprintf(constvars.MobileMoneyCollectionPath, externalReference)),
		headers: g.headers(payment.ID),
	}, collection)
	if err != nil {
		g.Log.Error("mobileMoneyGateway.Capture error fetching collection",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}
	if collection.TransactionID == "" {
		collection.TransactionID = externalReference
	}

	return g.toResult(collection)
}

func (g *mobileMoneyGateway) Refund(ctx context.Context, input *contracts.GatewayRefundInput) (*contracts.GatewayResult, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("mobileMoneyGateway.Refund called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, input.Payment.ID),
	)

	refund := new(mobileMoneyCollectionResponse)
	err := g.transport.do(ctx, gatewayRequest{
		method:  http.MethodPost,
		url:     joinURL(g.cfg.BaseUrl, fmt.Sprintf(constvars.MobileMoneyRefundPath, input.Payment.ExternalPaymentID)),
		headers: g.headers("refund-" + input.Payment.ID),
		body: mobileMoneyRefundRequest{
			Amount: input.Amount.StringFixed(2),
			Reason: input.Reason,
		},
	}, refund)
	if err != nil {
		g.Log.Error("mobileMoneyGateway.Refund error requesting refund",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	switch refund.Status {
	case constvars.MobileMoneyStatusSuccessful, constvars.MobileMoneyStatusPending:
		return &contracts.GatewayResult{ExternalReference: refund.TransactionID, Status: models.PaymentStatusRefunded, Message: refund.Status}, nil
	default:
		return nil, exceptions.ErrGatewayDeclined(constvars.PaymentGatewayMobileMoney, refund.Reason)
	}
}

func (g *mobileMoneyGateway) headers(referenceID string) map[string]string {
	return map[string]string{
		constvars.HeaderAuthorization: "Bearer " + g.cfg.ApiKey,
		constvars.HeaderSubscription:  g.cfg.SubscriptionKey,
		constvars.HeaderReferenceID:   referenceID,
	}
}

func (g *mobileMoneyGateway) toResult(collection *mobileMoneyCollectionResponse) (*contracts.GatewayResult, error) {
	result := &contracts.GatewayResult{
		ExternalReference: collection.TransactionID,
		Message:           collection.Status,
	}
	switch collection.Status {
	case constvars.MobileMoneyStatusSuccessful:
		result.Status = models.PaymentStatusCompleted
	case constvars.MobileMoneyStatusPending, "":
		result.Status = models.PaymentStatusPending
	default:
		reason := collection.Reason
		if reason == "" {
			reason = collection.Status
		}
		return nil, exceptions.ErrGatewayDeclined(constvars.PaymentGatewayMobileMoney, reason)
	}
	return result, nil
}
