package constvars

const (
	URLParamPaymentID     = "payment_id"
	URLParamPaymentMethod = "payment_method"
	URLParamActionID      = "action_id"
	URLParamCacheKey      = "cache_key"
)
