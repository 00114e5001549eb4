package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// Config carries every environment-driven setting the service needs.
// Load never fails; Validate reports everything wrong at once so a bad
// deploy dies with a complete list instead of one error per restart.
type Config struct {
	// HTTP server
	Port string
	Env  string // "development" or "production"

	LogLevel string

	// Supabase identity provider
	SupabaseURL            string
	SupabaseJWTSecret      string
	SupabaseServiceRoleKey string

	// Stores
	DatabaseURL string // Postgres (accounts, conversations)
	MongoURI    string // document store (profiles, expenses, chat)

	// Kafka (advisor request/response transport)
	KafkaBootstrapServers string
	KafkaAPIKey           string
	KafkaAPISecret        string

	// Hosted prompt runtime
	OpenAIAPIKey string

	// Qdrant (expense vectors for advisor retrieval); optional
	QdrantURL    string
	QdrantAPIKey string

	// Internal surface
	InternalAPIKey string

	WorkerCount int
}

func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SupabaseURL:            os.Getenv("SUPABASE_URL"),
		SupabaseJWTSecret:      os.Getenv("SUPABASE_JWT_SECRET"),
		SupabaseServiceRoleKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		MongoURI:    os.Getenv("MONGO_URI"),

		KafkaBootstrapServers: os.Getenv("KAFKA_BOOTSTRAP_SERVERS"),
		KafkaAPIKey:           os.Getenv("KAFKA_API_KEY"),
		KafkaAPISecret:        os.Getenv("KAFKA_API_SECRET"),

		OpenAIAPIKey: os.Getenv("OPENAI_API_KEY"),

		QdrantURL:    os.Getenv("QDRANT_URL"),
		QdrantAPIKey: os.Getenv("QDRANT_API_KEY"),

		InternalAPIKey: os.Getenv("INTERNAL_API_KEY"),

		WorkerCount: getEnvInt("WORKER_COUNT", 4),
	}
}

// Validate checks the configuration and returns a combined error listing
// every problem found.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.Env != "development" && c.Env != "production" {
		problems = append(problems, fmt.Sprintf("invalid env %q: must be development or production", c.Env))
	}

	if c.SupabaseURL == "" {
		problems = append(problems, "SUPABASE_URL is required")
	} else if _, err := url.Parse(c.SupabaseURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid SUPABASE_URL: %v", err))
	}
	if c.SupabaseJWTSecret == "" {
		problems = append(problems, "SUPABASE_JWT_SECRET is required")
	}

	if c.DatabaseURL == "" {
		problems = append(problems, "DATABASE_URL is required")
	}
	if c.MongoURI == "" {
		problems = append(problems, "MONGO_URI is required")
	}

	if c.KafkaBootstrapServers == "" {
		problems = append(problems, "KAFKA_BOOTSTRAP_SERVERS is required")
	}

	if c.OpenAIAPIKey == "" {
		problems = append(problems, "OPENAI_API_KEY is required")
	}

	if c.InternalAPIKey == "" {
		problems = append(problems, "INTERNAL_API_KEY is required")
	}

	// Qdrant is optional, but if one half is set the other must be too.
	if c.QdrantURL != "" && c.QdrantAPIKey == "" {
		problems = append(problems, "QDRANT_API_KEY is required when QDRANT_URL is set")
	}

	if c.WorkerCount < 1 || c.WorkerCount > 64 {
		problems = append(problems, fmt.Sprintf("invalid worker count %d: must be between 1 and 64", c.WorkerCount))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Development reports whether the service runs in development mode, which
// controls log encoding and how permission errors are surfaced.
func (c *Config) Development() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
