package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application, sourced from
// environment variables.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`

	StripeSecretKey      string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret  string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	StripePriceIDMonthly string `mapstructure:"STRIPE_PRICE_ID_MONTHLY"`
	StripePriceIDYearly  string `mapstructure:"STRIPE_PRICE_ID_YEARLY"`

	ClientURL string `mapstructure:"CLIENT_URL"`

	// Optional infrastructure. Empty values disable the corresponding feature:
	// no Redis address means no status caching, no AMQP URL means the
	// reconciliation notifier degrades to a logging no-op.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	RabbitMQURL    string `mapstructure:"RABBITMQ_URL"`
	ReconcileQueue string `mapstructure:"RECONCILE_QUEUE"`

	SMTPUser           string `mapstructure:"SMTP_USER"`
	SMTPPass           string `mapstructure:"SMTP_PASS"`
	MailSender         string `mapstructure:"MAIL_SENDER"`
	TrialDays          int    `mapstructure:"TRIAL_DAYS"`
	FreePetCap         int    `mapstructure:"FREE_PET_CAP"`
	StatusCacheSeconds int    `mapstructure:"STATUS_CACHE_SECONDS"`
}

// LoadConfig loads configuration from environment variables using Viper.
func LoadConfig() (*Config, error) {
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("RECONCILE_QUEUE", "subscription.reconcile")
	viper.SetDefault("TRIAL_DAYS", 14)
	viper.SetDefault("FREE_PET_CAP", 2)
	viper.SetDefault("STATUS_CACHE_SECONDS", 60)

	for _, key := range []string{
		"PORT", "GIN_MODE",
		"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
		"STRIPE_SECRET_KEY", "STRIPE_WEBHOOK_SECRET", "STRIPE_PRICE_ID_MONTHLY", "STRIPE_PRICE_ID_YEARLY",
		"CLIENT_URL",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"RABBITMQ_URL", "RECONCILE_QUEUE",
		"SMTP_USER", "SMTP_PASS", "MAIL_SENDER",
		"TRIAL_DAYS", "FREE_PET_CAP", "STATUS_CACHE_SECONDS",
	} {
		viper.BindEnv(key)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}

	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID is required")
	}
	if cfg.GoogleApplicationCredentials == "" && cfg.FirebaseServiceAccountJSONBase64 == "" {
		return nil, errors.New("either GOOGLE_APPLICATION_CREDENTIALS or FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is required")
	}
	if cfg.StripeSecretKey == "" {
		return nil, errors.New("STRIPE_SECRET_KEY is required")
	}
	if cfg.StripeWebhookSecret == "" {
		return nil, errors.New("STRIPE_WEBHOOK_SECRET is required")
	}
	if cfg.StripePriceIDMonthly == "" || cfg.StripePriceIDYearly == "" {
		return nil, errors.New("STRIPE_PRICE_ID_MONTHLY and STRIPE_PRICE_ID_YEARLY are required")
	}
	if cfg.ClientURL == "" {
		return nil, errors.New("CLIENT_URL is required")
	}

	return &cfg, nil
}
