package config

import (
	"strings"

	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

// NewInternalConfig reads application settings from an optional config file named by
// APP_CONFIG_FILE, overridden by environment variables (app.port -> APP_PORT).
func NewInternalConfig() (*InternalConfig, error) {
	v := viper.New()
	setInternalDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile := utils.GetEnvString("APP_CONFIG_FILE", ""); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	internalConfig := &InternalConfig{}
	if err := v.Unmarshal(internalConfig); err != nil {
		return nil, err
	}
	return internalConfig, nil
}

// Every key needs a default so AutomaticEnv can see it during Unmarshal.
func setInternalDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.version", "v1")
	v.SetDefault("app.address", "0.0.0.0")
	v.SetDefault("app.timezone", "Africa/Lusaka")
	v.SetDefault("app.frontend_domain", "http://localhost:5173")
	v.SetDefault("app.endpoint_prefix", "api")
	v.SetDefault("app.max_requests", 100)
	v.SetDefault("app.shutdown_timeout_in_seconds", 10)
	v.SetDefault("app.max_time_requests_per_seconds", 60)
	v.SetDefault("app.request_body_limit_in_megabyte", 2)
	v.SetDefault("app.payment_capture_lock_in_seconds", 30)

	v.SetDefault("jwt.secret", "dococlock-secret")
	v.SetDefault("jwt.exp_time_in_hour", 24)

	v.SetDefault("minio.receipt_bucket_name", "payment-receipts")
	v.SetDefault("minio.pre_signed_url_object_expiry_time_in_hours", 1)

	v.SetDefault("rabbitmq.wallet_credit_queue", constvars.RabbitMQWalletCreditQueue)
	v.SetDefault("rabbitmq.offline_action_dlq", constvars.RabbitMQOfflineActionDLQ)

	v.SetDefault("mongodb.db_name", "dococlock")

	v.SetDefault("payment_gateway.request_timeout_in_seconds", 30)
	v.SetDefault("payment_gateway.rate_limit_per_second", 5.0)
	v.SetDefault("payment_gateway.rate_limit_burst", 10)
	v.SetDefault("payment_gateway.callback_token", "")
	v.SetDefault("payment_gateway.card.base_url", "")
	v.SetDefault("payment_gateway.card.api_key", "")
	v.SetDefault("payment_gateway.paypal.base_url", "https://api-m.sandbox.paypal.com")
	v.SetDefault("payment_gateway.paypal.client_id", "")
	v.SetDefault("payment_gateway.paypal.client_secret", "")
	v.SetDefault("payment_gateway.paypal.return_url", "")
	v.SetDefault("payment_gateway.paypal.cancel_url", "")
	v.SetDefault("payment_gateway.mobile_money.base_url", "")
	v.SetDefault("payment_gateway.mobile_money.api_key", "")
	v.SetDefault("payment_gateway.mobile_money.subscription_key", "")

	v.SetDefault("network.probe_url", "")
	v.SetDefault("network.probe_interval_in_seconds", 15)
	v.SetDefault("network.probe_timeout_in_seconds", 5)

	v.SetDefault("offline_sync.handler_timeout_in_seconds", 10)
	v.SetDefault("offline_sync.sweep_cron_spec", "@every 5m")

	v.SetDefault("two_factor.issuer", "Doc' O Clock")
	v.SetDefault("two_factor.backup_code_count", 10)
	v.SetDefault("two_factor.max_attempts", 5)
	v.SetDefault("two_factor.attempt_window_in_seconds", 300)
}
