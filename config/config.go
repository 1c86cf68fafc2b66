package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	PORT        string
	DB_URL      string
	CORS_ORIGIN string
	APP_URL     string

	LOG_LEVEL  string
	LOG_FORMAT string

	// Identity provider. OIDC_ISSUER wins when set; JWT_SECRET is the HMAC fallback.
	OIDC_ISSUER    string
	OIDC_CLIENT_ID string
	JWT_SECRET     string

	STRIPE_SECRET_KEY     string
	STRIPE_WEBHOOK_SECRET string
	STRIPE_PRICE_WEEKLY   string
	STRIPE_PRICE_MONTHLY  string
	STRIPE_PRICE_YEARLY   string

	WEBHOOK_ORDERING_GUARD bool

	LLM_API_KEY  string
	LLM_BASE_URL string
	LLM_MODEL    string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	PORT = v.GetString("PORT")
	DB_URL = mustEnv(v, "DB_URL")
	CORS_ORIGIN = v.GetString("CORS_ORIGIN")
	APP_URL = v.GetString("APP_URL")

	LOG_LEVEL = v.GetString("LOG_LEVEL")
	LOG_FORMAT = v.GetString("LOG_FORMAT")

	OIDC_ISSUER = v.GetString("OIDC_ISSUER")
	OIDC_CLIENT_ID = v.GetString("OIDC_CLIENT_ID")
	JWT_SECRET = v.GetString("JWT_SECRET")
	if OIDC_ISSUER == "" && JWT_SECRET == "" {
		log.Fatal("Missing identity configuration: set OIDC_ISSUER or JWT_SECRET")
	}

	STRIPE_SECRET_KEY = mustEnv(v, "STRIPE_SECRET_KEY")
	STRIPE_WEBHOOK_SECRET = mustEnv(v, "STRIPE_WEBHOOK_SECRET")
	STRIPE_PRICE_WEEKLY = v.GetString("STRIPE_PRICE_WEEKLY")
	STRIPE_PRICE_MONTHLY = v.GetString("STRIPE_PRICE_MONTHLY")
	STRIPE_PRICE_YEARLY = v.GetString("STRIPE_PRICE_YEARLY")

	WEBHOOK_ORDERING_GUARD = v.GetBool("WEBHOOK_ORDERING_GUARD")

	LLM_API_KEY = v.GetString("LLM_API_KEY")
	LLM_BASE_URL = v.GetString("LLM_BASE_URL")
	LLM_MODEL = v.GetString("LLM_MODEL")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("CORS_ORIGIN", "http://localhost:3000")
	v.SetDefault("APP_URL", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("WEBHOOK_ORDERING_GUARD", false)
	v.SetDefault("LLM_BASE_URL", "https://openrouter.ai/api/v1")
	v.SetDefault("LLM_MODEL", "meta-llama/llama-3.2-3b-instruct:free")
}

func mustEnv(v *viper.Viper, key string) string {
	value := strings.TrimSpace(v.GetString(key))
	if value == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return value
}
