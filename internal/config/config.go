package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Ai         AIConfig
	Validation ValidationConfig
	Analytics  AnalyticsConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	LocalStoragePath   string
}

type DatabaseConfig struct {
	Connection string
}

type AIConfig struct {
	LLMProvider       string // "openai" or "ollama"
	LLMModel          string // e.g. "gpt-4o-mini", "llama3"
	EmbeddingProvider string // "openai" or "ollama"
	EmbeddingModel    string // e.g. "text-embedding-3-small", "nomic-embed-text"
	OpenAIAPIKey      string
	OllamaBaseURL     string
	ModerationModel   string
}

type ValidationConfig struct {
	MaxQuestionLength int
	FlaggedTTLMinutes int
	FlaggedStore      string // "memory" or "redis"
}

type AnalyticsConfig struct {
	Enabled      bool
	EventLogPath string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			LocalStoragePath:   getEnv("LOCAL_STORAGE_PATH", "local_storage"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
			LLMModel:          getEnv("LLM_MODEL", "gpt-4o-mini"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "openai"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			ModerationModel:   getEnv("MODERATION_MODEL", "omni-moderation-latest"),
		},
		Validation: ValidationConfig{
			MaxQuestionLength: getEnvAsInt("MAX_QUESTION_LENGTH", 1000),
			FlaggedTTLMinutes: getEnvAsInt("FLAGGED_TRACKING_TTL_MINUTES", 5),
			FlaggedStore:      getEnv("FLAGGED_STORE", "memory"),
		},
		Analytics: AnalyticsConfig{
			Enabled:      getEnv("ANALYTICS_ENABLED", "true") == "true",
			EventLogPath: getEnv("ANALYTICS_LOG_PATH", "logs/analytics.log"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
