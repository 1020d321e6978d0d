package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Payout     PayoutConfig
	Earnings   EarningsConfig
	Moderation ModerationConfig
	Notify     NotifyConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration for admin tokens
type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// PayoutConfig holds payment gateway configuration
type PayoutConfig struct {
	BaseURL string
	APIKey  string
	// CallbackSecretHash is the bcrypt hash of the shared secret the
	// gateway presents on confirmation callbacks.
	CallbackSecretHash string
}

// EarningsConfig holds the money knobs. Rates are fractions (0.10 = 10%);
// amounts are minor currency units (paise). Values are snapshotted onto
// withdrawal requests at creation, so changing them never rewrites history.
type EarningsConfig struct {
	FeeRate           float64
	TDSRate           float64
	CommissionRate    float64
	MinimumWithdrawal int64
	ReconcileInterval time.Duration
}

// ModerationConfig holds moderation score thresholds and the strike policy
type ModerationConfig struct {
	CriticalThreshold float64
	HighThreshold     float64
	MediumThreshold   float64
	SuspendAfter      int
	BanAfter          int
}

// NotifyConfig holds the outbound notification webhook
type NotifyConfig struct {
	WebhookURL string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "promptmint"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:       getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry: getEnvAsDuration("JWT_ACCESS_EXPIRY", 12*time.Hour),
		},
		Payout: PayoutConfig{
			BaseURL:            getEnv("PAYOUT_GATEWAY_URL", ""),
			APIKey:             getEnv("PAYOUT_GATEWAY_API_KEY", ""),
			CallbackSecretHash: getEnv("PAYOUT_CALLBACK_SECRET_HASH", ""),
		},
		Earnings: EarningsConfig{
			FeeRate:           getEnvAsFloat("WITHDRAWAL_FEE_RATE", 0.10),
			TDSRate:           getEnvAsFloat("WITHDRAWAL_TDS_RATE", 0.05),
			CommissionRate:    getEnvAsFloat("PLATFORM_COMMISSION_RATE", 0.20),
			MinimumWithdrawal: getEnvAsInt64("MINIMUM_WITHDRAWAL", 50000), // ₹500 in paise
			ReconcileInterval: getEnvAsDuration("LEDGER_RECONCILE_INTERVAL", 15*time.Minute),
		},
		Moderation: ModerationConfig{
			CriticalThreshold: getEnvAsFloat("MODERATION_CRITICAL_THRESHOLD", 0.9),
			HighThreshold:     getEnvAsFloat("MODERATION_HIGH_THRESHOLD", 0.7),
			MediumThreshold:   getEnvAsFloat("MODERATION_MEDIUM_THRESHOLD", 0.4),
			SuspendAfter:      getEnvAsInt("STRIKES_SUSPEND_AFTER", 3),
			BanAfter:          getEnvAsInt("STRIKES_BAN_AFTER", 5),
		},
		Notify: NotifyConfig{
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
