package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration, read once at startup.
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	DatabaseURL   string
	CORSOrigins   []string
	RateLimitRPS  float64
	RateBurst     int
	AuthRateRPS   float64
	AuthRateBurst int

	// Auth
	JWTSecret string
	TokenTTL  time.Duration

	// Payments
	StripeSecretKey    string
	CheckoutSuccessURL string
	CheckoutCancelURL  string
	FrontendBaseURL    string
	GatewayTimeout     time.Duration
	DefaultFeeRupees   int
	MinFeeRupees       int
	Currency           string

	// Idempotency store
	RedisAddr     string
	RedisPassword string
	IdempotencyTTL time.Duration

	// Notifications
	TwilioAccountSID    string
	TwilioAuthToken     string
	TwilioWhatsAppFrom  string
	NotificationTimeout time.Duration
}

// Load reads configuration from environment variables.
func Load() *Config {
	frontend := getEnv("FRONTEND_URL", "http://localhost:5173")
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		CORSOrigins:   splitAndTrim(getEnv("ALLOWED_ORIGINS", frontend)),
		RateLimitRPS:  getEnvAsFloat("RATE_LIMIT_RPS", 10),
		RateBurst:     getEnvAsInt("RATE_LIMIT_BURST", 30),
		AuthRateRPS:   getEnvAsFloat("AUTH_RATE_LIMIT_RPS", 1),
		AuthRateBurst: getEnvAsInt("AUTH_RATE_LIMIT_BURST", 10),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getEnvAsDuration("TOKEN_TTL", 24*time.Hour),

		StripeSecretKey:    getEnv("STRIPE_SECRET_KEY", ""),
		CheckoutSuccessURL: getEnv("CHECKOUT_SUCCESS_URL", frontend+"/confirmation?session_id={CHECKOUT_SESSION_ID}"),
		CheckoutCancelURL:  getEnv("CHECKOUT_CANCEL_URL", frontend+"/checkout?cancelled=true"),
		FrontendBaseURL:    frontend,
		GatewayTimeout:     getEnvAsDuration("PAYMENT_GATEWAY_TIMEOUT", 10*time.Second),
		DefaultFeeRupees:   getEnvAsInt("DEFAULT_CONSULTATION_FEE", 500),
		MinFeeRupees:       getEnvAsInt("MIN_CONSULTATION_FEE", 100),
		Currency:           getEnv("PAYMENT_CURRENCY", "inr"),

		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		IdempotencyTTL: getEnvAsDuration("PAYMENT_IDEMPOTENCY_TTL", 2*time.Minute),

		TwilioAccountSID:    getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:     getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioWhatsAppFrom:  getEnv("TWILIO_WHATSAPP_NUMBER", ""),
		NotificationTimeout: getEnvAsDuration("NOTIFICATION_TIMEOUT", 5*time.Second),
	}
}

// IsProduction reports whether the server runs with production hardening.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
