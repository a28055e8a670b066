package config

import (
	"os"
	"strings"
	"time"
)

// Placeholder values shipped in the sample .env. A variable still holding
// its placeholder counts as not configured.
const (
	PlaceholderSupabaseDBURL     = "your-supabase-db-url"
	PlaceholderAppwriteProjectID = "your-project-id"
)

type Config struct {
	// Device-local storage
	LocalStorePath string

	// Hosted backend: Supabase (Postgres connection string)
	SupabaseDBURL string

	// Hosted backend: Appwrite
	AppwriteEndpoint           string
	AppwriteProjectID          string
	AppwriteAPIKey             string
	AppwriteDatabaseID         string
	AppwriteCollectionID       string
	AppwriteTokensCollectionID string

	// JWT (remote backends only)
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	// AI Providers
	OpenAIAPIKey string
	OpenAIAPIURL string
	OpenAIModel  string

	DeepSeekAPIKey string
	DeepSeekAPIURL string
	DeepSeekModel  string

	GLMAPIKey string
	GLMAPIURL string
	GLMModel  string

	AITimeout time.Duration

	// Server
	Port        string
	CORSOrigins string

	// Observability
	SentryDSN    string
	AppEnv       string
	LogRetention time.Duration
}

func Load() *Config {
	return &Config{
		LocalStorePath: getEnv("LOCAL_STORE_PATH", "wellness.db"),

		SupabaseDBURL: getEnv("SUPABASE_DB_URL", PlaceholderSupabaseDBURL),

		AppwriteEndpoint:           getEnv("APPWRITE_ENDPOINT", "https://cloud.appwrite.io/v1"),
		AppwriteProjectID:          getEnv("APPWRITE_PROJECT_ID", PlaceholderAppwriteProjectID),
		AppwriteAPIKey:             getEnv("APPWRITE_API_KEY", ""),
		AppwriteDatabaseID:         getEnv("APPWRITE_DATABASE_ID", "wellness"),
		AppwriteCollectionID:       getEnv("APPWRITE_COLLECTION_ID", "user_data"),
		AppwriteTokensCollectionID: getEnv("APPWRITE_TOKENS_COLLECTION_ID", "refresh_tokens"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIAPIURL: getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		DeepSeekAPIKey: getEnv("DEEPSEEK_API_KEY", ""),
		DeepSeekAPIURL: getEnv("DEEPSEEK_API_URL", "https://api.deepseek.com/v1/chat/completions"),
		DeepSeekModel:  getEnv("DEEPSEEK_MODEL", "deepseek-chat"),

		GLMAPIKey: getEnv("GLM_API_KEY", ""),
		GLMAPIURL: getEnv("GLM_API_URL", "https://api.z.ai/api/paas/v4/chat/completions"),
		GLMModel:  getEnv("GLM_MODEL", "glm-4-plus"),

		AITimeout: parseDuration(getEnv("AI_TIMEOUT", "60s"), 60*time.Second),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		SentryDSN:    getEnv("SENTRY_DSN", ""),
		AppEnv:       getEnv("APP_ENV", "development"),
		LogRetention: parseDuration(getEnv("LOG_RETENTION", "720h"), 30*24*time.Hour),
	}
}

// SupabaseConfigured reports whether the Supabase connection string is set.
func (c *Config) SupabaseConfigured() bool {
	return IsConfigured(c.SupabaseDBURL, PlaceholderSupabaseDBURL)
}

// AppwriteConfigured reports whether an Appwrite project id is set.
func (c *Config) AppwriteConfigured() bool {
	return IsConfigured(c.AppwriteProjectID, PlaceholderAppwriteProjectID) &&
		strings.TrimSpace(c.AppwriteEndpoint) != ""
}

// IsConfigured is true when value is non-blank and differs from placeholder.
func IsConfigured(value, placeholder string) bool {
	v := strings.TrimSpace(value)
	return v != "" && v != placeholder
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
