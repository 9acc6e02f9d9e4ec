package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":       "is required",
	"email":          "must be a valid email",
	"min":            "must be at least %s characters long",
	"max":            "maximum at %s characters long",
	"len":            "must be %s characters long",
	"oneof":          "must be one of [%s]",
	"gt":             "must be greater than %s",
	"gte":            "must be greater than or equal to %s",
	"uuid":           "must be a valid UUID",
	"password":       "must be at least 8 characters long, contain at least one special character, and one uppercase letter",
	"zm_phone":       "must be a valid Zambian phone number",
	"payment_method": "must be one of [card, mobile_money, paypal, bank_transfer]",
	"decimal_gt0":    "must be a positive amount",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"len":   true,
	"gt":    true,
	"gte":   true,
	"oneof": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientNotAuthorized                 = "you can't access this feature"
	ErrClientForbidden                     = "your account is not allowed to do this"
	ErrClientPaymentNotFound               = "payment not found"
	ErrClientInvalidPaymentTransition      = "this payment can no longer be changed that way"
	ErrClientPaymentBusy                   = "this payment is being processed, please try again shortly"
	ErrClientPaymentGatewayFailed          = "the payment provider could not process your payment"
	ErrClientIncompatibleProvider          = "this phone number does not belong to the selected mobile money provider"
	ErrClientInvalidPhoneNumber            = "please enter a valid Zambian phone number"
	ErrClientInvalidRefundAmount           = "refund amount must be positive and not exceed the payment amount"
	ErrClientUnsupportedPaymentMethod      = "this payment method is not available"
	ErrClientTwoFactorInvalidCode          = "the verification code is invalid"
	ErrClientTwoFactorNotConfigured        = "two-factor authentication is not set up"
	ErrClientTwoFactorAlreadyEnabled       = "two-factor authentication is already enabled"
	ErrClientEmailAlreadyExists            = "email already used"
	ErrClientRegistrationFailed            = "we could not complete your registration, please try again"
	ErrClientCachedValueNotFound           = "no cached value for this key"
	ErrClientSyncInProgress                = "sync is already running"
	ErrClientReceiptNotFound               = "receipt not available for this payment"
	ErrClientInvalidCredentials            = "email or password is incorrect"
	ErrClientTooManyRequests               = "too many requests, please slow down"
)

// Error messages for developers
const (
	ErrDevValidationFailed         = "validation failed"
	ErrDevCannotParseJSON          = "cannot parse JSON"
	ErrDevCannotMarshalJSON        = "cannot marshal JSON"
	ErrDevCreateHTTPRequest        = "failed to create HTTP request"
	ErrDevSendHTTPRequest          = "failed to send HTTP request"
	ErrDevServerDeadlineExceeded   = "server deadline exceeded"
	ErrDevServerProcess            = "server failed to process request"
	ErrDevMissingRequestID         = "request id missing from context"
	ErrDevURLParamValidationFailed = "url param %s validation failed"
	ErrDevFailedToHashPassword     = "failed to hash password"

	ErrDevPaymentNotFound             = "payment %s not found"
	ErrDevInvalidTransition           = "invalid payment transition from %s to %s"
	ErrDevTransitionConflict          = "payment %s changed concurrently, expected status %s"
	ErrDevPaymentCaptureLocked        = "capture lock for payment %s is held by another caller"
	ErrDevGatewayRequestFailed        = "%s gateway request failed"
	ErrDevGatewayDeclined             = "%s gateway declined the payment: %s"
	ErrDevIncompatibleProvider        = "phone prefix %s does not belong to provider %s"
	ErrDevInvalidPhoneNumber          = "phone number %s cannot be normalized"
	ErrDevInvalidRefundAmount         = "refund amount %s is invalid for payment amount %s"
	ErrDevUnsupportedPaymentMethod    = "no gateway registered for payment method %s"
	ErrDevUnknownActionType           = "no handler registered for offline action type %s"
	ErrDevOfflineActionInvalidPayload = "offline action %s payload is invalid"
	ErrDevSyncInProgress              = "sync pass already running"
	ErrDevOfflineActionNotOwned       = "offline action %s acts on behalf of %s, not the signed-in user %s"
	ErrDevTwoFactorInvalidCode        = "two-factor code rejected for user %s"
	ErrDevTwoFactorNotConfigured      = "two-factor credential missing for user %s"
	ErrDevTwoFactorAlreadyEnabled     = "two-factor already enabled for user %s"
	ErrDevTwoFactorGenerate           = "failed to generate two-factor secret"
	ErrDevEmailAlreadyExists          = "email %s already registered"
	ErrDevRegistrationStepFailed      = "registration step %s failed"
	ErrDevTokenGenerate               = "failed to generate session token"
	ErrDevReceiptNotFound             = "receipt for payment %s not found"
	ErrDevInvalidCredentials          = "invalid credentials for %s"
	ErrDevNotAuthorized               = "request not authorized: %s"
	ErrDevForbidden                   = "roles %v may not %s %s"
	ErrDevTooManyRequests             = "rate limit exceeded"
	ErrDevTooManyAttempts             = "too many %s attempts for %s, retry in %ds"

	ErrDevDBFailedToFindDocument   = "failed to find document"
	ErrDevDBFailedToInsertDocument = "failed to insert document"
	ErrDevDBFailedToUpdateDocument = "failed to update document"
	ErrDevDBFailedToDeleteDocument = "failed to delete document"
	ErrDevDBFailedToDecodeDocument = "failed to decode document"

	ErrDevRedisGetData        = "failed to get data from redis"
	ErrDevRedisSetData        = "failed to set data to redis"
	ErrDevRedisDeleteData     = "failed to delete data from redis"
	ErrDevRedisIncrementValue = "failed to increment value on redis"
	ErrDevRedisPushToList     = "failed to push to list on redis"
	ErrDevRedisPopFromList    = "failed to pop from list on redis"
	ErrDevRedisSortedSet      = "failed to read or write sorted set on redis"
	ErrDevRedisUnlock         = "failed to unlock redis key"

	ErrDevRabbitMQPublishMessage = "failed to publish message to queue %s"
	ErrDevMinioCreateObject      = "failed to create object on bucket %s"
	ErrDevMinioPresignedURL      = "failed to create presigned url on bucket %s"
)

// Error codes shared with clients
const (
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
	ErrCodePersistence          = "PERSISTENCE_ERROR"
	ErrCodeTransitionConflict   = "TRANSITION_CONFLICT"
	ErrCodeGateway              = "GATEWAY_ERROR"
	ErrCodeIncompatibleProvider = "INCOMPATIBLE_PROVIDER"
	ErrCodeUnknownActionType    = "UNKNOWN_ACTION_TYPE"
	ErrCodePaymentNotFound      = "PAYMENT_NOT_FOUND"
	ErrCodeValidation           = "VALIDATION_FAILED"
	ErrCodeTwoFactorInvalidCode = "TWO_FACTOR_INVALID_CODE"
	ErrCodeRegistration         = "REGISTRATION_FAILED"
	ErrCodeInternal             = "INTERNAL_ERROR"
	ErrCodeForbidden            = "FORBIDDEN"
	ErrCodeRateLimited          = "RATE_LIMITED"
)
