package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Security  SecurityConfig
	OTP       OTPConfig
	Referral  ReferralConfig
	Mail      MailConfig
	Jobs      JobsConfig
	Google    GoogleConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
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
	PASSWORD string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SecurityConfig holds encryption keys. Keys are 32 bytes, hex encoded.
type SecurityConfig struct {
	ResetTokenKey    string
	ResetTokenExpiry time.Duration
}

// OTPConfig controls one-time passcodes.
type OTPConfig struct {
	TTL    time.Duration
	Digits int
	// MaxAttempts wrong guesses burn the code.
	MaxAttempts int
}

// ReferralConfig controls referral rewards.
type ReferralConfig struct {
	ReferrerBonus int64
	RefereeBonus  int64
	LinkBaseURL   string
}

// MailConfig controls outbound email. An empty NSQAddress logs emails instead of publishing them.
type MailConfig struct {
	From       string
	NSQAddress string
	NSQTopic   string
}

// JobsConfig controls background workers.
type JobsConfig struct {
	OutboxInterval  time.Duration
	OutboxBatchSize int
	OutboxRetention time.Duration
	PurgeInterval   time.Duration
}

// GoogleConfig controls Google sign-in.
type GoogleConfig struct {
	ClientID string
	JWKSURL  string
}

// RateLimitConfig limits OTP-sending and credential-checking endpoints.
type RateLimitConfig struct {
	OTPRequests    int
	OTPWindow      time.Duration
	VerifyRequests int
	VerifyWindow   time.Duration
	LoginRequests  int
	LoginWindow    time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "kemea"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Security: SecurityConfig{
			ResetTokenKey:    getEnv("RESET_TOKEN_KEY", "0000000000000000000000000000000000000000000000000000000000000000"),
			ResetTokenExpiry: getEnvAsDuration("RESET_TOKEN_EXPIRY", 15*time.Minute),
		},
		OTP: OTPConfig{
			TTL:         getEnvAsDuration("OTP_TTL", 10*time.Minute),
			Digits:      getEnvAsInt("OTP_DIGITS", 4),
			MaxAttempts: getEnvAsInt("OTP_MAX_ATTEMPTS", 5),
		},
		Referral: ReferralConfig{
			ReferrerBonus: int64(getEnvAsInt("REFERRAL_REFERRER_BONUS", 1000)),
			RefereeBonus:  int64(getEnvAsInt("REFERRAL_REFEREE_BONUS", 500)),
			LinkBaseURL:   getEnv("REFERRAL_LINK_BASE_URL", "https://kemea.al/register"),
		},
		Mail: MailConfig{
			From:       getEnv("MAIL_FROM", "no-reply@kemea.al"),
			NSQAddress: getEnv("NSQ_ADDRESS", ""),
			NSQTopic:   getEnv("NSQ_EMAIL_TOPIC", "emails"),
		},
		Jobs: JobsConfig{
			OutboxInterval:  getEnvAsDuration("OUTBOX_DISPATCH_INTERVAL", 5*time.Second),
			OutboxBatchSize: getEnvAsInt("OUTBOX_BATCH_SIZE", 50),
			OutboxRetention: getEnvAsDuration("OUTBOX_RETENTION", 7*24*time.Hour),
			PurgeInterval:   getEnvAsDuration("PURGE_INTERVAL", 15*time.Minute),
		},
		Google: GoogleConfig{
			ClientID: getEnv("GOOGLE_CLIENT_ID", ""),
			JWKSURL:  getEnv("GOOGLE_JWKS_URL", "https://www.googleapis.com/oauth2/v3/certs"),
		},
		RateLimit: RateLimitConfig{
			OTPRequests:    getEnvAsInt("RATE_LIMIT_OTP_REQUESTS", 5),
			OTPWindow:      getEnvAsDuration("RATE_LIMIT_OTP_WINDOW", time.Hour),
			VerifyRequests: getEnvAsInt("RATE_LIMIT_VERIFY_REQUESTS", 10),
			VerifyWindow:   getEnvAsDuration("RATE_LIMIT_VERIFY_WINDOW", 15*time.Minute),
			LoginRequests:  getEnvAsInt("RATE_LIMIT_LOGIN_REQUESTS", 20),
			LoginWindow:    getEnvAsDuration("RATE_LIMIT_LOGIN_WINDOW", 15*time.Minute),
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
