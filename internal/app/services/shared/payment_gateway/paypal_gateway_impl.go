package payment_gateway

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"dococlock-service/internal/app/config"
	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// tokens are refreshed this long before PayPal says they expire
const payPalTokenLeeway = time.Minute

type payPalGateway struct {
	cfg       config.AppPayPalGateway
	transport *gatewayTransport
	Log       *zap.Logger

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type payPalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type payPalPurchaseUnit struct {
	ReferenceID string       `json:"reference_id"`
	Description string       `json:"description,omitempty"`
	Amount      payPalAmount `json:"amount"`
}

type payPalApplicationContext struct {
	ReturnURL string `json:"return_url,omitempty"`
	CancelURL string `json:"cancel_url,omitempty"`
}

type payPalCreateOrderRequest struct {
	Intent             string                   `json:"intent"`
	PurchaseUnits      []payPalPurchaseUnit     `json:"purchase_units"`
	ApplicationContext payPalApplicationContext `json:"application_context"`
}

type payPalLink struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type payPalCapture struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type payPalOrderResponse struct {
	ID            string       `json:"id"`
	Status        string       `json:"status"`
	Links         []payPalLink `json:"links"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []payPalCapture `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

type payPalRefundRequest struct {
	Amount      payPalAmount `json:"amount"`
	NoteToPayer string       `json:"note_to_payer,omitempty"`
}

type payPalTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func NewPayPalGateway(cfg config.AppPayPalGateway, opts Options, logger *zap.Logger) contracts.PaymentGateway {
	return &payPalGateway{
		cfg:       cfg,
		transport: newGatewayTransport(constvars.PaymentGatewayPayPal, opts, logger),
		Log:       logger,
	}
}

func (g *payPalGateway) Method() models.PaymentMethod {
	return models.PaymentMethodPayPal
}

// Initiate creates an order and hands back the approval link; the payment stays pending
// until the payer approves and we capture.
func (g *payPalGateway) Initiate(ctx context.Context, input *contracts.GatewayInitiateInput) (*contracts.GatewayResult, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("payPalGateway.Initiate called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, input.Payment.ID),
	)

	headers, err := g.headers(ctx, input.Payment.ID)
	if err != nil {
		return nil, err
	}

	returnURL := input.ReturnURL
	if returnURL == "" {
		returnURL = g.cfg.ReturnUrl
	}

	order := new(payPalOrderResponse)
	err = g.transport.do(ctx, gatewayRequest{
		method:  http.MethodPost,
		url:     joinURL(g.cfg.BaseUrl, constvars.PayPalOrdersPath),
		headers: headers,
		body: payPalCreateOrderRequest{
			Intent: "CAPTURE",
			PurchaseUnits: []payPalPurchaseUnit{{
				ReferenceID: input.Payment.ID,
				Description: input.Description,
				Amount: payPalAmount{
					CurrencyCode: input.Payment.Currency,
					Value:        input.Payment.Amount.StringFixed(2),
				},
			}},
			ApplicationContext: payPalApplicationContext{
				ReturnURL: returnURL,
				CancelURL: g.cfg.CancelUrl,
			},
		},
	}, order)
	if err != nil {
		g.Log.Error("payPalGateway.Initiate error creating order",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	result := &contracts.GatewayResult{
		ExternalReference: order.ID,
		Status:            models.PaymentStatusPending,
		Message:           order.Status,
	}
	for _, link := range order.Links {
		if link.Rel == constvars.PayPalApproveLinkRel {
			result.PaymentURL = link.Href
		}
	}
	return result, nil
}

// Capture captures an approved order. The returned reference is the capture id, which is
// what PayPal refunds are keyed by.
func (g *payPalGateway) Capture(ctx context.Context, payment *models.Payment, externalReference string) (*contracts.GatewayResult, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("payPalGateway.Capture called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, payment.ID),
		zap.String(constvars.LoggingExternalRefKey, externalReference),
	)

	headers, err := g.headers(ctx, "capture-"+payment.ID)
	if err != nil {
		return nil, err
	}

	order := new(payPalOrderResponse)
	err = g.transport.do(ctx, gatewayRequest{
		method:  http.MethodPost,
		url:     joinURL(g.cfg.BaseUrl, fmt.Sprintf(constvars.PayPalCaptureOrderPath, externalReference)),
		headers: headers,
		body:    struct{}{},
	}, order)
	if err != nil {
		g.Log.Error("payPalGateway.Capture error capturing order",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	capture := payPalCapture{ID: order.ID, Status: order.Status}
	if len(order.PurchaseUnits) > 0 && len(order.PurchaseUnits[0].Payments.Captures) > 0 {
		capture = order.PurchaseUnits[0].Payments.Captures[0]
	}

	switch capture.Status {
	case constvars.PayPalStatusCompleted:
		return &contracts.GatewayResult{ExternalReference: capture.ID, Status: models.PaymentStatusCompleted, Message: capture.Status}, nil
	case constvars.PayPalStatusPending, constvars.PayPalStatusApproved, constvars.PayPalStatusCreated:
		return &contracts.GatewayResult{ExternalReference: externalReference, Status: models.PaymentStatusPending, Message: capture.Status}, nil
	default:
		return nil, exceptions.ErrGatewayDeclined(constvars.PaymentGatewayPayPal, capture.Status)
	}
}

func (g *payPalGateway) Refund(ctx context.Context, input *contracts.GatewayRefundInput) (*contracts.GatewayResult, error) {
	requestID := utils.GetRequestID(ctx)
	g.Log.Info("payPalGateway.Refund called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPaymentIDKey, input.Payment.ID),
	)

	headers, err := g.headers(ctx, "refund-"+input.Payment.ID)
	if err != nil {
		return nil, err
	}

	refund := new(payPalCapture)
	err = g.transport.do(ctx, gatewayRequest{
		method:  http.MethodPost,
		url:     joinURL(g.cfg.BaseUrl, fmt.Sprintf(constvars.PayPalRefundCapturePath, input.Payment.ExternalPaymentID)),
		headers: headers,
		body: payPalRefundRequest{
			Amount: payPalAmount{
				CurrencyCode: input.Payment.Currency,
				Value:        input.Amount.StringFixed(2),
			},
			NoteToPayer: input.Reason,
		},
	}, refund)
	if err != nil {
		g.Log.Error("payPalGateway.Refund error refunding capture",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, err
	}

	switch refund.Status {
	case constvars.PayPalStatusCompleted, constvars.PayPalStatusPending:
		return &contracts.GatewayResult{ExternalReference: refund.ID, Status: models.PaymentStatusRefunded, Message: refund.Status}, nil
	default:
		return nil, exceptions.ErrGatewayDeclined(constvars.PaymentGatewayPayPal, refund.Status)
	}
}

func (g *payPalGateway) headers(ctx context.Context, requestKey string) (map[string]string, error) {
	token, err := g.token(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		constvars.HeaderAuthorization: "Bearer " + token,
		constvars.HeaderPayPalRequest: requestKey,
	}, nil
}

// token returns a cached OAuth client-credentials token, fetching a new one when the
// cached one is about to expire.
func (g *payPalGateway) token(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.accessToken != "" && time.Now().Before(g.tokenExpiry) {
		return g.accessToken, nil
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(g.cfg.ClientID + ":" + g.cfg.ClientSecret))
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	token := new(payPalTokenResponse)
	err := g.transport.do(ctx, gatewayRequest{
		method:  http.MethodPost,
		url:     joinURL(g.cfg.BaseUrl, constvars.PayPalOAuthTokenPath),
		headers: map[string]string{constvars.HeaderAuthorization: "Basic " + credentials},
		form:    form.Encode(),
	}, token)
	if err != nil {
		g.Log.Error("payPalGateway.token error fetching access token",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.Error(err),
		)
		return "", err
	}

	g.accessToken = token.AccessToken
	g.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - payPalTokenLeeway)
	return g.accessToken, nil
}
