package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DBUrl              string
	JWTSecret          string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	SupabaseURL        string
	SupabaseBucket     string
	SupabaseServiceKey string
	ChatAPIURL         string
	WearableSyncURL    string
	OAuthClientID      string
	OAuthAuthorizeURL  string
	OAuthRedirectURL   string
	PublicBaseURL      string
	AppEnv             string
	LogLevel           string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return &Config{
		Port:               getEnv("PORT", "5050"),
		DBUrl:              getEnv("DB_URL", ""),
		JWTSecret:          jwtSecret,
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		SupabaseURL:        getEnv("SUPABASE_URL", ""),
		SupabaseBucket:     getEnv("SUPABASE_BUCKET", "avatars"),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_KEY", ""),
		ChatAPIURL:         getEnv("CHAT_API_URL", "http://localhost:5051"),
		WearableSyncURL:    getEnv("WEARABLE_SYNC_URL", "http://localhost:5052"),
		OAuthClientID:      getEnv("WEARABLE_OAUTH_CLIENT_ID", "catchup-dev"),
		OAuthAuthorizeURL:  getEnv("WEARABLE_OAUTH_AUTHORIZE_URL", "https://accounts.google.com/o/oauth2/v2/auth"),
		OAuthRedirectURL:   getEnv("WEARABLE_OAUTH_REDIRECT_URL", "http://localhost:5050/api/wearables/callback"),
		PublicBaseURL:      getEnv("PUBLIC_BASE_URL", "http://localhost:5050"),
		AppEnv:             normalizeEnv(getEnv("APP_ENV", "production")),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
