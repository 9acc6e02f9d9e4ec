package payment_gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"dococlock-service/internal/app/config"
	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testPayment(method models.PaymentMethod) *models.Payment {
	return &models.Payment{
		ID:                "pay-1",
		Amount:            decimal.RequireFromString("150.50"),
		Currency:          "ZMW",
		PaymentMethod:     method,
		ExternalPaymentID: "ext-1",
	}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(15050), toMinorUnits(decimal.RequireFromString("150.50")))
	assert.Equal(t, int64(1), toMinorUnits(decimal.RequireFromString("0.005")))
	assert.Equal(t, int64(100), toMinorUnits(decimal.NewFromInt(1)))
}

func TestGatewayTransport_Do(t *testing.T) {
	t.Run("4xx is a decline carrying the gateway message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusPaymentRequired, `{"message":"insufficient funds"}`)
		}))
		defer server.Close()

		transport := newGatewayTransport("test", Options{}, zap.NewNop())
		err := transport.do(context.Background(), gatewayRequest{method: http.MethodPost, url: server.URL}, nil)

		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Contains(t, customErr.DevMessage, "insufficient funds")
		assert.Nil(t, customErr.Err)
	})

	t.Run("5xx is a request failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		transport := newGatewayTransport("test", Options{}, zap.NewNop())
		err := transport.do(context.Background(), gatewayRequest{method: http.MethodGet, url: server.URL}, nil)

		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Equal(t, constvars.ErrCodeGateway, customErr.Code)
		assert.NotNil(t, customErr.Err)
	})

	t.Run("Timeout is a request failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			writeJSON(w, http.StatusOK, `{}`)
		}))
		defer server.Close()

		transport := newGatewayTransport("test", Options{Timeout: 20 * time.Millisecond}, zap.NewNop())
		err := transport.do(context.Background(), gatewayRequest{method: http.MethodGet, url: server.URL}, nil)

		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.NotNil(t, customErr.Err)
	})

	t.Run("Form bodies keep their content type", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, constvars.MIMEApplicationForm, r.Header.Get(constvars.HeaderContentType))
			writeJSON(w, http.StatusOK, `{}`)
		}))
		defer server.Close()

		transport := newGatewayTransport("test", Options{}, zap.NewNop())
		require.NoError(t, transport.do(context.Background(), gatewayRequest{method: http.MethodPost, url: server.URL, form: "a=b"}, nil))
	})
}

func TestCardGateway(t *testing.T) {
	t.Run("Charge needing 3-D Secure stays pending with a redirect", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, constvars.CardChargesPath, r.URL.Path)
			assert.Equal(t, "Bearer sk_test", r.Header.Get(constvars.HeaderAuthorization))
			assert.Equal(t, "pay-1", r.Header.Get(constvars.HeaderIdempotencyKey))

			var charge cardChargeRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&charge))
			assert.Equal(t, int64(15050), charge.Amount)
			assert.Equal(t, "tok_visa", charge.Source)

			writeJSON(w, http.StatusOK, `{"id":"ch_1","status":"requires_action","next_action_url":"https://3ds.example/ch_1"}`)
		}))
		defer server.Close()

		gateway := NewCardGateway(config.AppCardGateway{BaseUrl: server.URL, ApiKey: "sk_test"}, Options{}, zap.NewNop())
		result, err := gateway.Initiate(context.Background(), &contracts.GatewayInitiateInput{
			Payment:   testPayment(models.PaymentMethodCard),
			CardToken: "tok_visa",
		})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, result.Status)
		assert.Equal(t, "ch_1", result.ExternalReference)
		assert.Equal(t, "https://3ds.example/ch_1", result.PaymentURL)
	})

	t.Run("Failed charge is a decline", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"id":"ch_1","status":"failed","failure_message":"card expired"}`)
		}))
		defer server.Close()

		gateway := NewCardGateway(config.AppCardGateway{BaseUrl: server.URL}, Options{}, zap.NewNop())
		_, err := gateway.Capture(context.Background(), testPayment(models.PaymentMethodCard), "ch_1")

		var customErr *exceptions.CustomError
		require.True(t, errors.As(err, &customErr))
		assert.Contains(t, customErr.DevMessage, "card expired")
	})

	t.Run("Refund hits the charge refund path", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/charges/ext-1/refunds", r.URL.Path)
			writeJSON(w, http.StatusOK, `{"id":"re_1","status":"succeeded"}`)
		}))
		defer server.Close()

		gateway := NewCardGateway(config.AppCardGateway{BaseUrl: server.URL + "/"}, Options{}, zap.NewNop())
		result, err := gateway.Refund(context.Background(), &contracts.GatewayRefundInput{
			Payment: testPayment(models.PaymentMethodCard),
			Amount:  decimal.NewFromInt(50),
		})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusRefunded, result.Status)
		assert.Equal(t, "re_1", result.ExternalReference)
	})
}

func TestPayPalGateway(t *testing.T) {
	var tokenCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == constvars.PayPalOAuthTokenPath:
			atomic.AddInt32(&tokenCalls, 1)
			assert.True(t, strings.HasPrefix(r.Header.Get(constvars.HeaderAuthorization), "Basic "))
			writeJSON(w, http.StatusOK, `{"access_token":"A21","expires_in":3600}`)
		case r.URL.Path == constvars.PayPalOrdersPath:
			assert.Equal(t, "Bearer A21", r.Header.Get(constvars.HeaderAuthorization))
			var order payPalCreateOrderRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&order))
			assert.Equal(t, "150.50", order.PurchaseUnits[0].Amount.Value)
			assert.Equal(t, "https://app.example/return", order.ApplicationContext.ReturnURL)
			writeJSON(w, http.StatusCreated, `{"id":"ORDER-1","status":"CREATED","links":[{"href":"https://paypal.example/approve","rel":"approve"}]}`)
		case r.URL.Path == "/v2/checkout/orders/ORDER-1/capture":
			writeJSON(w, http.StatusCreated, `{"id":"ORDER-1","status":"COMPLETED","purchase_units":[{"payments":{"captures":[{"id":"CAP-1","status":"COMPLETED"}]}}]}`)
		case r.URL.Path == "/v2/checkout/orders/ORDER-2/capture":
			writeJSON(w, http.StatusUnprocessableEntity, `{"message":"ORDER_NOT_APPROVED"}`)
		case r.URL.Path == "/v2/payments/captures/ext-1/refund":
			writeJSON(w, http.StatusCreated, `{"id":"REF-1","status":"COMPLETED"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	gateway := NewPayPalGateway(config.AppPayPalGateway{
		BaseUrl:      server.URL,
		ClientID:     "client",
		ClientSecret: "secret",
		ReturnUrl:    "https://app.example/return",
	}, Options{}, zap.NewNop())
	ctx := context.Background()

	result, err := gateway.Initiate(ctx, &contracts.GatewayInitiateInput{Payment: testPayment(models.PaymentMethodPayPal)})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, result.Status)
	assert.Equal(t, "ORDER-1", result.ExternalReference)
	assert.Equal(t, "https://paypal.example/approve", result.PaymentURL)

	captured, err := gateway.Capture(ctx, testPayment(models.PaymentMethodPayPal), "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusCompleted, captured.Status)
	assert.Equal(t, "CAP-1", captured.ExternalReference)

	_, err = gateway.Capture(ctx, testPayment(models.PaymentMethodPayPal), "ORDER-2")
	var customErr *exceptions.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Contains(t, customErr.DevMessage, "ORDER_NOT_APPROVED")

	refunded, err := gateway.Refund(ctx, &contracts.GatewayRefundInput{
		Payment: testPayment(models.PaymentMethodPayPal),
		Amount:  decimal.NewFromInt(10),
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, refunded.Status)

	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls), "access token is cached across calls")
}

func TestMobileMoneyGateway(t *testing.T) {
	payment := testPayment(models.PaymentMethodMobileMoney)
	payment.PhoneNumber = "260971234567"
	payment.MobileMoneyProvider = models.MobileMoneyProviderMTN

	t.Run("Collection request is pending until the handset approves", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, constvars.MobileMoneyCollectionsPath, r.URL.Path)
			assert.Equal(t, "sub-key", r.Header.Get(constvars.HeaderSubscription))

			var collection mobileMoneyCollectionRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&collection))
			assert.Equal(t, "260971234567", collection.PhoneNumber)
			assert.Equal(t, "mtn", collection.Provider)

			writeJSON(w, http.StatusAccepted, `{"status":"PENDING"}`)
		}))
		defer server.Close()

		gateway := NewMobileMoneyGateway(config.AppMobileMoneyGateway{BaseUrl: server.URL, SubscriptionKey: "sub-key"}, Options{}, zap.NewNop())
		result, err := gateway.Initiate(context.Background(), &contracts.GatewayInitiateInput{Payment: payment})
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPending, result.Status)
		assert.Equal(t, "pay-1", result.ExternalReference)
	})

	t.Run("Capture reports the handset outcome", func(t *testing.T) {
		tests := []struct {
			name     string
			body     string
			expected models.PaymentStatus
			declined bool
		}{
			{"successful", `{"transaction_id":"mm-1","status":"SUCCESSFUL"}`, models.PaymentStatusCompleted, false},
			{"still pending", `{"transaction_id":"mm-1","status":"PENDING"}`, models.PaymentStatusPending, false},
			{"rejected", `{"transaction_id":"mm-1","status":"REJECTED","reason":"payer declined"}`, "", true},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, http.MethodGet, r.Method)
					assert.Equal(t, "/collections/mm-1", r.URL.Path)
					writeJSON(w, http.StatusOK, tt.body)
				}))
				defer server.Close()

				gateway := NewMobileMoneyGateway(config.AppMobileMoneyGateway{BaseUrl: server.URL}, Options{}, zap.NewNop())
				result, err := gateway.Capture(context.Background(), payment, "mm-1")
				if tt.declined {
					assert.Error(t, err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result.Status)
			})
		}
	})
}
