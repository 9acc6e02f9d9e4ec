package constvars

const (
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	InitiatePaymentSuccessMessage   = "payment initiated successfully"
	GetPaymentSuccessMessage        = "get payment successfully"
	CapturePaymentSuccessMessage    = "payment captured successfully"
	RefundPaymentSuccessMessage     = "payment refunded successfully"
	GetReceiptSuccessMessage        = "get payment receipt successfully"
	PaymentCallbackSuccessMessage   = "payment callback processed successfully"
	EnqueueActionSuccessMessage     = "action queued successfully"
	EnqueueActionWarningMessage     = "action could not be saved for offline sync"
	ListActionsSuccessMessage       = "get pending actions successfully"
	RemoveActionSuccessMessage      = "action removed successfully"
	SyncSuccessMessage              = "sync pass finished"
	CacheValueSuccessMessage        = "value cached successfully"
	GetCachedValueSuccessMessage    = "get cached value successfully"
	GetNetworkStatusSuccessMessage  = "get network status successfully"
	ObserveNetworkSuccessMessage    = "network sample recorded successfully"
	TwoFactorSetupSuccessMessage    = "two-factor setup started, verify a code to enable it"
	TwoFactorEnabledSuccessMessage  = "two-factor authentication enabled"
	TwoFactorVerifiedSuccessMessage = "two-factor code verified"
	TwoFactorDisabledSuccessMessage = "two-factor authentication disabled"
	RegisterProviderSuccessMessage  = "provider registered successfully, your application is pending verification"
	LoginSuccessMessage             = "login successfully"
)
