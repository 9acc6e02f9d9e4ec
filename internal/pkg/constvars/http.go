package constvars

const (
	MIMEApplicationJSON = "application/json"
	MIMEApplicationForm = "application/x-www-form-urlencoded"
)

const (
	StatusOK        = 200
	StatusCreated   = 201
	StatusAccepted  = 202
	StatusNoContent = 204

	StatusBadRequest      = 400
	StatusUnauthorized    = 401
	StatusForbidden       = 403
	StatusNotFound        = 404
	StatusConflict        = 409
	StatusGone            = 410
	StatusTooManyRequests = 429

	StatusInternalServerError = 500
	StatusBadGateway          = 502
	StatusServiceUnavailable  = 503
	StatusGatewayTimeout      = 504
)

const (
	HeaderAuthorization  = "Authorization"
	HeaderContentType    = "Content-Type"
	HeaderAccept         = "Accept"
	HeaderXRequestID     = "X-Request-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderPayPalRequest  = "PayPal-Request-Id"
	HeaderCallbackToken  = "X-Callback-Token"
	HeaderReferenceID    = "X-Reference-Id"
	HeaderSubscription   = "Ocp-Apim-Subscription-Key"
	HeaderCacheControl   = "Cache-Control"
)
