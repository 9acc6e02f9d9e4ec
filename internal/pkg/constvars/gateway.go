package constvars

const (
	PaymentGatewayCard        = "card"
	PaymentGatewayPayPal      = "paypal"
	PaymentGatewayMobileMoney = "mobile_money"
)

// PayPal REST v2 order and capture statuses.
const (
	PayPalStatusCreated   = "CREATED"
	PayPalStatusApproved  = "APPROVED"
	PayPalStatusCompleted = "COMPLETED"
	PayPalStatusDeclined  = "DECLINED"
	PayPalStatusVoided    = "VOIDED"
	PayPalStatusPending   = "PENDING"
	PayPalStatusFailed    = "FAILED"
)

// Mobile money collection statuses.
const (
	MobileMoneyStatusPending    = "PENDING"
	MobileMoneyStatusSuccessful = "SUCCESSFUL"
	MobileMoneyStatusFailed     = "FAILED"
	MobileMoneyStatusRejected   = "REJECTED"
	MobileMoneyStatusTimeout    = "TIMEOUT"
)

// Card processor charge statuses.
const (
	CardStatusRequiresAction = "requires_action"
	CardStatusProcessing     = "processing"
	CardStatusSucceeded      = "succeeded"
	CardStatusFailed         = "failed"
)

const (
	PayPalOAuthTokenPath    = "/v1/oauth2/token"
	PayPalOrdersPath        = "/v2/checkout/orders"
	PayPalCaptureOrderPath  = "/v2/checkout/orders/%s/capture"
	PayPalRefundCapturePath = "/v2/payments/captures/%s/refund"
	PayPalApproveLinkRel    = "approve"

	MobileMoneyCollectionsPath = "/collections"
	MobileMoneyCollectionPath  = "/collections/%s"
	MobileMoneyRefundPath      = "/collections/%s/refunds"

	CardChargesPath       = "/charges"
	CardChargeCapturePath = "/charges/%s/capture"
	CardChargeRefundPath  = "/charges/%s/refunds"
)
