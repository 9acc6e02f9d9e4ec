package constvars

const (
	LoggingRequestIDKey      = "request_id"
	LoggingRequestKey        = "request"
	LoggingDataKey           = "data"
	LoggingResponseKey       = "response"
	LoggingErrorTypeKey      = "error_type"
	LoggingEndpointKey       = "endpoint"
	LoggingMethodKey         = "method"
	LoggingRemoteAddrKey     = "remote_addr"
	LoggingUserAgentKey      = "user_agent"
	LoggingQueryKey          = "query"
	LoggingStatusCodeKey     = "status_code"
	LoggingDurationKey       = "duration"
	LoggingSuccessKey        = "success"
	LoggingOperationKey      = "operation"
	LoggingErrorCodeKey      = "error_code"
	LoggingErrorMessageKey   = "error_message"
	LoggingRedisKey          = "redis_key"
	LoggingQueueNameKey      = "queue_name"
	LoggingBucketNameKey     = "bucket_name"
	LoggingObjectNameKey     = "object_name"
	LoggingUserIDKey         = "user_id"
	LoggingLockValueKey      = "lock_value"
	LoggingLockExpirationKey = "lock_expiration"

	LoggingPaymentIDKey         = "payment_id"
	LoggingPaymentStatusKey     = "payment_status"
	LoggingPaymentNextStatusKey = "payment_next_status"
	LoggingPaymentMethodKey     = "payment_method"
	LoggingGatewayKey           = "gateway"
	LoggingExternalRefKey       = "external_ref"

	LoggingActionIDKey      = "action_id"
	LoggingActionTypeKey    = "action_type"
	LoggingPendingCountKey  = "pending_count"
	LoggingSyncStateKey     = "sync_state"
	LoggingIsOnlineKey      = "is_online"
	LoggingEffectiveTypeKey = "effective_type"
	LoggingDownlinkKey      = "downlink"
	LoggingRTTKey           = "rtt"
	LoggingQualityKey       = "connection_quality"
	LoggingSagaStepKey      = "saga_step"
	LoggingCacheKey         = "cache_key"
)
