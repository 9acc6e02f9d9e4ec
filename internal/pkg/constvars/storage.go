package constvars

const (
	MongoCollectionPayments                = "payments"
	MongoCollectionTwoFactor               = "user_two_factor"
	MongoCollectionUsers                   = "users"
	MongoCollectionProviderProfiles        = "provider_profiles"
	MongoCollectionUserRoles               = "user_roles"
	MongoCollectionInstitutionApplications = "institution_applications"
	MongoCollectionPrescriptions           = "prescriptions"
	MongoCollectionAppointments            = "appointments"
	MongoCollectionMessages                = "messages"
)

const (
	RedisKeyOfflineActionFormat   = "OFFLINE:USER:%s:ACTION:%s"
	RedisKeyOfflineActionIndex    = "OFFLINE:ACTIONS"
	RedisKeyOfflineActionSequence = "OFFLINE:ACTIONS:SEQ"
	RedisKeyOfflineCacheFormat    = "OFFLINE:USER:%s:CACHE:%s"
	RedisKeyPaymentCaptureLock    = "PAYMENT:CAPTURE:LOCK:%s"
	RedisKeyWalletCreditDedup     = "WALLET:CREDIT:%s"
	RedisKeyWalletCreditFailed    = "WALLET:CREDIT:FAILED"
	RedisKeySyncWorkerLock        = "OFFLINE:SYNC:LOCK"
	RedisKeyAttemptWindowFormat   = "%s:%s:%d"

	LimiterGroupTwoFactor = "TWO_FACTOR"
)

const (
	RabbitMQWalletCreditQueue    = "wallet_credit_queue"
	RabbitMQOfflineActionDLQ     = "offline_action_dlq"
	MinioReceiptObjectNameFormat = "receipts/%s.json"
)
