package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI     string
	DBName       string
	JWTSecret    string
	JWTExpiresIn string
	Port         string
	GinMode      string
	CORSOrigins  []string

	// Upload handling
	MaxFileSize    int64
	AllowedTypes   []string
	BookStorageDir string
	TextStorageDir string

	// Generation providers. Deliberately not validated at startup: a missing
	// credential means the matching endpoints report service-unavailable
	// instead of the whole process refusing to boot.
	GeminiAPIKey    string
	GeminiModel     string
	SummarizerURL   string
	SummarizerToken string
	AITimeoutSecs   int

	// Per-task minimum input lengths (characters). The tasks historically
	// used different thresholds; keep them independently tunable.
	SummaryMinChars   int
	FlashcardMinChars int
	NotesMinChars     int

	BcryptCost int

	// Rate limiting (generation endpoints)
	RateLimitReqs   int
	RateLimitWindow int
	RedisURL        string
	RedisPassword   string
	RedisDB         int

	// Orphan blob sweep
	SweepIntervalMins int
	SweepMinAgeMins   int

	// Tracing
	TracingEnabled bool
	OTLPEndpoint   string
}

func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017/learn_ease"),
		DBName:       getEnv("DB_NAME", "learn_ease"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		JWTExpiresIn: getEnv("JWT_EXPIRES_IN", "24h"),
		Port:         getEnv("PORT", "8080"),
		GinMode:      getEnv("GIN_MODE", "debug"),
		CORSOrigins:  strings.Split(getEnv("CORS_ORIGINS", "http://localhost:3000"), ","),

		MaxFileSize:    getEnvInt64("MAX_FILE_SIZE", 52428800), // 50MB
		AllowedTypes:   strings.Split(getEnv("ALLOWED_FILE_TYPES", "application/pdf"), ","),
		BookStorageDir: getEnv("BOOK_STORAGE_DIR", "./storage/books"),
		TextStorageDir: getEnv("TEXT_STORAGE_DIR", "./storage/extracted-texts"),

		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		SummarizerURL:   getEnv("SUMMARIZER_URL", ""),
		SummarizerToken: getEnv("SUMMARIZER_TOKEN", ""),
		AITimeoutSecs:   getEnvInt("AI_TIMEOUT_SECONDS", 45),

		SummaryMinChars:   getEnvInt("SUMMARY_MIN_CHARS", 20),
		FlashcardMinChars: getEnvInt("FLASHCARD_MIN_CHARS", 10),
		NotesMinChars:     getEnvInt("NOTES_MIN_CHARS", 20),

		BcryptCost: getEnvInt("BCRYPT_COST", 12),

		RateLimitReqs:   getEnvInt("RATE_LIMIT_REQUESTS", 30),
		RateLimitWindow: getEnvInt("RATE_LIMIT_WINDOW", 60),
		RedisURL:        getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),

		SweepIntervalMins: getEnvInt("SWEEP_INTERVAL_MINUTES", 60),
		SweepMinAgeMins:   getEnvInt("SWEEP_MIN_AGE_MINUTES", 60),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", "localhost:4317"),
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required - set it in .env file")
	}

	return cfg, nil
}

// TokenTTL returns the access token lifetime, defaulting to 24h when the
// configured value does not parse.
func (c *Config) TokenTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTExpiresIn)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
