package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Stripe   StripeConfig
	Provider ProviderConfig
	Storage  StorageConfig
	Email    EmailConfig
}

type ServerConfig struct {
	Port       string
	AppBaseURL string
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
}

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	PriceBasic    string
	PricePro      string
}

type ProviderConfig struct {
	ReplicateToken string
	GatewayAPIKey  string
	GatewayBaseURL string
	// Dış üretim çağrısına uygulanan hard deadline.
	GenerationTimeout time.Duration
}

type StorageConfig struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type EmailConfig struct {
	ResendAPIKey string
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:       getEnv("PORT", "3000"),
			AppBaseURL: getEnv("APP_BASE_URL", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
		},
		Stripe: StripeConfig{
			SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
			WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
			PriceBasic:    getEnv("STRIPE_PRICE_BASIC", ""),
			PricePro:      getEnv("STRIPE_PRICE_PRO", ""),
		},
		Provider: ProviderConfig{
			ReplicateToken:    getEnv("REPLICATE_API_TOKEN", ""),
			GatewayAPIKey:     getEnv("GATEWAY_API_KEY", ""),
			GatewayBaseURL:    getEnv("GATEWAY_BASE_URL", ""),
			GenerationTimeout: time.Duration(getEnvInt("GENERATION_TIMEOUT", 300)) * time.Second,
		},
		Storage: StorageConfig{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", "https://cdn.petphoto.app"),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
