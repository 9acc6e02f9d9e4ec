package payment_gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options are shared by every gateway client. Timeout bounds each HTTP call, and the
// limiter throttles outbound calls per gateway.
type Options struct {
	Timeout            time.Duration
	RateLimitPerSecond float64
	RateLimitBurst     int
	HTTPClient         *http.Client
}

type gatewayTransport struct {
	gateway string
	client  *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

func newGatewayTransport(gateway string, opts Options, logger *zap.Logger) *gatewayTransport {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	if opts.Timeout > 0 {
		c := *client
		c.Timeout = opts.Timeout
		client = &c
	}

	limit := rate.Inf
	if opts.RateLimitPerSecond > 0 {
		limit = rate.Limit(opts.RateLimitPerSecond)
	}
	burst := opts.RateLimitBurst
	if burst <= 0 {
		burst = 1
	}

	return &gatewayTransport{
		gateway: gateway,
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
		log:     logger,
	}
}

type gatewayRequest struct {
	method  string
	url     string
	headers map[string]string
	// body is sent as JSON unless form is set.
	body interface{}
	form string
}

// gatewayErrorBody covers the error shapes of the gateways we talk to.
type gatewayErrorBody struct {
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Reason           string `json:"reason"`
}

func (b gatewayErrorBody) text() string {
	for _, s := range []string{b.Message, b.ErrorDescription, b.Reason, b.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// do sends req and decodes a 2xx body into out. Transport failures and timeouts become
// ErrGatewayRequest; non-2xx answers become ErrGatewayDeclined carrying the gateway's
// message.
func (t *gatewayTransport) do(ctx context.Context, req gatewayRequest, out interface{}) error {
	requestID := utils.GetRequestID(ctx)

	if err := t.limiter.Wait(ctx); err != nil {
		return exceptions.ErrGatewayRequest(err, t.gateway)
	}

	var body io.Reader
	contentType := constvars.MIMEApplicationJSON
	switch {
	case req.form != "":
		body = strings.NewReader(req.form)
		contentType = constvars.MIMEApplicationForm
	case req.body != nil:
		payload, err := json.Marshal(req.body)
		if err != nil {
			return exceptions.ErrCannotMarshalJSON(err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, req.url, body)
	if err != nil {
		return exceptions.ErrCreateHTTPRequest(err)
	}
	httpReq.Header.Set(constvars.HeaderAccept, constvars.MIMEApplicationJSON)
	if body != nil {
		httpReq.Header.Set(constvars.HeaderContentType, contentType)
	}
	for key, value := range req.headers {
		httpReq.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := t.client.Do(httpReq)
	if err != nil {
		t.log.Error("gatewayTransport.do error sending HTTP request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingGatewayKey, t.gateway),
			zap.String(constvars.LoggingEndpointKey, req.url),
			zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
			zap.Error(err),
		)
		return exceptions.ErrGatewayRequest(err, t.gateway)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return exceptions.ErrGatewayRequest(err, t.gateway)
	}

	t.log.Debug("gatewayTransport.do received response",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingGatewayKey, t.gateway),
		zap.String(constvars.LoggingEndpointKey, req.url),
		zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		zap.Duration(constvars.LoggingDurationKey, time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody gatewayErrorBody
		_ = json.Unmarshal(respBody, &errBody)
		reason := errBody.text()
		if reason == "" {
			reason = fmt.Sprintf("status %d", resp.StatusCode)
		}
		// 5xx and 429 mean the gateway never decided, which is a request failure
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return exceptions.ErrGatewayRequest(errors.New(reason), t.gateway)
		}
		return exceptions.ErrGatewayDeclined(t.gateway, reason)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return exceptions.ErrGatewayRequest(err, t.gateway)
	}
	return nil
}

func joinURL(baseURL, path string) string {
	return strings.TrimRight(baseURL, "/") + path
}
