package config

type InternalConfig struct {
	App            App               `mapstructure:"app"`
	JWT            AppJWT            `mapstructure:"jwt"`
	Minio          AppMinio          `mapstructure:"minio"`
	RabbitMQ       AppRabbitMQ       `mapstructure:"rabbitmq"`
	MongoDB        AppMongoDB        `mapstructure:"mongodb"`
	PaymentGateway AppPaymentGateway `mapstructure:"payment_gateway"`
	Network        AppNetwork        `mapstructure:"network"`
	OfflineSync    AppOfflineSync    `mapstructure:"offline_sync"`
	TwoFactor      AppTwoFactor      `mapstructure:"two_factor"`
}

type App struct {
	Env                         string `mapstructure:"env"`
	Port                        string `mapstructure:"port"`
	Version                     string `mapstructure:"version"`
	Address                     string `mapstructure:"address"`
	Timezone                    string `mapstructure:"timezone"`
	FrontendDomain              string `mapstructure:"frontend_domain"`
	EndpointPrefix              string `mapstructure:"endpoint_prefix"`
	MaxRequests                 int    `mapstructure:"max_requests"`
	ShutdownTimeoutInSeconds    int    `mapstructure:"shutdown_timeout_in_seconds"`
	MaxTimeRequestsPerSeconds   int    `mapstructure:"max_time_requests_per_seconds"`
	RequestBodyLimitInMegabyte  int    `mapstructure:"request_body_limit_in_megabyte"`
	PaymentCaptureLockInSeconds int    `mapstructure:"payment_capture_lock_in_seconds"`
}

type AppJWT struct {
	Secret        string `mapstructure:"secret"`
	ExpTimeInHour int    `mapstructure:"exp_time_in_hour"`
}

type AppMinio struct {
	ReceiptBucketName                   string `mapstructure:"receipt_bucket_name"`
	PreSignedUrlObjectExpiryTimeInHours int    `mapstructure:"pre_signed_url_object_expiry_time_in_hours"`
}

type AppRabbitMQ struct {
	WalletCreditQueue string `mapstructure:"wallet_credit_queue"`
	OfflineActionDLQ  string `mapstructure:"offline_action_dlq"`
}

type AppMongoDB struct {
	DBName string `mapstructure:"db_name"`
}

// AppPaymentGateway holds the outbound settings shared by every gateway client plus the
// per-gateway credentials.
type AppPaymentGateway struct {
	RequestTimeoutInSeconds int                   `mapstructure:"request_timeout_in_seconds"`
	RateLimitPerSecond      float64               `mapstructure:"rate_limit_per_second"`
	RateLimitBurst          int                   `mapstructure:"rate_limit_burst"`
	CallbackToken           string                `mapstructure:"callback_token"`
	Card                    AppCardGateway        `mapstructure:"card"`
	PayPal                  AppPayPalGateway      `mapstructure:"paypal"`
	MobileMoney             AppMobileMoneyGateway `mapstructure:"mobile_money"`
}

type AppCardGateway struct {
	BaseUrl string `mapstructure:"base_url"`
	ApiKey  string `mapstructure:"api_key"`
}

type AppPayPalGateway struct {
	BaseUrl      string `mapstructure:"base_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	ReturnUrl    string `mapstructure:"return_url"`
	CancelUrl    string `mapstructure:"cancel_url"`
}

type AppMobileMoneyGateway struct {
	BaseUrl         string `mapstructure:"base_url"`
	ApiKey          string `mapstructure:"api_key"`
	SubscriptionKey string `mapstructure:"subscription_key"`
}

type AppNetwork struct {
	// ProbeUrl is polled by the network prober; an empty value disables the prober.
	ProbeUrl               string `mapstructure:"probe_url"`
	ProbeIntervalInSeconds int    `mapstructure:"probe_interval_in_seconds"`
	ProbeTimeoutInSeconds  int    `mapstructure:"probe_timeout_in_seconds"`
}

type AppOfflineSync struct {
	HandlerTimeoutInSeconds int `mapstructure:"handler_timeout_in_seconds"`
	// SweepCronSpec schedules the background sweep that replays parked wallet credits and
	// retries queued actions while online.
	SweepCronSpec string `mapstructure:"sweep_cron_spec"`
}

type AppTwoFactor struct {
	Issuer          string `mapstructure:"issuer"`
	BackupCodeCount int    `mapstructure:"backup_code_count"`
	// MaxAttempts caps code checks per user inside one AttemptWindowInSeconds window.
	// Zero turns the limit off.
	MaxAttempts            int `mapstructure:"max_attempts"`
	AttemptWindowInSeconds int `mapstructure:"attempt_window_in_seconds"`
}
