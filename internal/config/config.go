package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	CatalogPath        string
	OpenAIKey          string
	Model              string
	EmbeddingModel     string
	RedisURL           string
	DatabaseURL        string
	HTTPAddr           string
	MetricsPort        string
	WorkerCount        int
	AgentMaxIterations int
	AgentTemperature   float32
	LogLevel           string
	LogFormat          string
	APIKeysFile        string
}

func Load() *Config {
	// project root .env when started from cmd/<bin>, then the working directory
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	cfg := &Config{
		CatalogPath:        getEnv("CATALOG_PATH", "data/products.csv"),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		Model:              getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		EmbeddingModel:     getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),
		RedisURL:           os.Getenv("REDIS_URL"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		MetricsPort:        getEnv("METRICS_PORT", "9090"),
		WorkerCount:        getEnvInt("WORKER_COUNT", 5),
		AgentMaxIterations: getEnvInt("AGENT_MAX_ITERATIONS", 5),
		AgentTemperature:   getEnvFloat("AGENT_TEMPERATURE", 0.3),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "auto"),
		APIKeysFile:        getEnv("API_KEYS_FILE", "config/api_keys.json"),
	}

	if cfg.OpenAIKey == "" {
		if keys, err := LoadAPIKeys(cfg.APIKeysFile); err == nil {
			cfg.OpenAIKey = keys["OPENAI_API_KEY"]
		}
	}
	return cfg
}

// LoadAPIKeys reads a flat JSON object of key names to secrets.
func LoadAPIKeys(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("API keys file not found at %s: %w", path, err)
	}
	var keys map[string]string
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", path, err)
	}
	return keys, nil
}

// Validate checks the settings the chat binaries cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.OpenAIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is not set (env, .env or "+c.APIKeysFile+")"))
	}
	if c.CatalogPath == "" {
		errs = append(errs, errors.New("CATALOG_PATH is empty"))
	}
	if c.AgentMaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("AGENT_MAX_ITERATIONS must be positive, got %d", c.AgentMaxIterations))
	}
	return errors.Join(errs...)
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getEnvInt(k string, d int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return d
	}
	return n
}

func getEnvFloat(k string, d float32) float32 {
	f, err := strconv.ParseFloat(os.Getenv(k), 32)
	if err != nil {
		return d
	}
	return float32(f)
}
