package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Port:                  "8080",
		Env:                   "production",
		LogLevel:              "info",
		SupabaseURL:           "https://example.supabase.co",
		SupabaseJWTSecret:     "secret",
		DatabaseURL:           "postgres://localhost/spendsense",
		MongoURI:              "mongodb://localhost:27017",
		KafkaBootstrapServers: "localhost:9092",
		OpenAIAPIKey:          "sk-test",
		InternalAPIKey:        "internal",
		WorkerCount:           4,
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidatePort(t *testing.T) {
	cases := []string{"", "abc", "0", "70000"}
	for _, port := range cases {
		cfg := validConfig()
		cfg.Port = port
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for port %q", port)
		}
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.SupabaseJWTSecret = ""
	cfg.MongoURI = ""
	cfg.WorkerCount = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"SUPABASE_JWT_SECRET", "MONGO_URI", "worker count"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestValidateQdrantPairing(t *testing.T) {
	cfg := validConfig()
	cfg.QdrantURL = "qdrant.example.com"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for QDRANT_URL without QDRANT_API_KEY")
	}
	cfg.QdrantAPIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestDevelopment(t *testing.T) {
	cfg := validConfig()
	if cfg.Development() {
		t.Fatal("production config reported development")
	}
	cfg.Env = "development"
	if !cfg.Development() {
		t.Fatal("development config not reported")
	}
}
