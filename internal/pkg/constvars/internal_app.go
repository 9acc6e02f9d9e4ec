package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_UID_KEY                  ContextKey = "uid"
	CONTEXT_ROLES_KEY                ContextKey = "roles"
)

const (
	REQUEST_ID_PREFIX = "DOCOCLOCK_SVC_"
)

const (
	DocOClockRolePatient     = "patient"
	DocOClockRoleProvider    = "provider"
	DocOClockRoleInstitution = "institution"
	DocOClockRoleAdmin       = "admin"
)

const (
	DefaultCurrency          = "ZMW"
	ZambiaCountryCode        = "260"
	DefaultBackupCodes       = 10
	BackupCodeLength         = 8
	TOTPIssuer               = "Doc' O Clock"
	ApplicationStatusPending = "pending_verification"
)
