package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrMissingRequired = errors.New("missing required configuration")

type Config struct {
	// Local inference service (Ollama-compatible HTTP API)
	OllamaBase string `envconfig:"OLLAMA_BASE" default:"http://localhost:11434"`
	ChatModel  string `envconfig:"OLLAMA_CHAT_MODEL" default:"llama3.2:3b"`
	EmbedModel string `envconfig:"OLLAMA_EMBED_MODEL" default:"nomic-embed-text"`

	// Corpus store. An empty DB_HOST means the store is not configured;
	// the server still starts so /health can report it.
	DBHost string `envconfig:"DB_HOST"`
	DBPort int    `envconfig:"DB_PORT" default:"5432"`
	DBUser string `envconfig:"DB_USER" default:"petchat"`
	DBPass string `envconfig:"DB_PASS"`
	DBName string `envconfig:"DB_NAME" default:"petchat"`

	MigrationPath string `envconfig:"MIGRATION_PATH" default:"file://migrations"`

	// Server
	ServerPort int `envconfig:"SERVER_PORT" default:"3001"`

	// Rate limiting (fixed window per caller address)
	RateLimitWindowSeconds int `envconfig:"RATE_LIMIT_WINDOW_SECONDS" default:"60"`
	RateLimitMax           int `envconfig:"RATE_LIMIT_MAX" default:"20"`

	// RAG pipeline
	RetrievalTopK int     `envconfig:"RETRIEVAL_TOP_K" default:"3"`
	Temperature   float64 `envconfig:"GENERATION_TEMPERATURE" default:"0.6"`

	// Upstream call policy. Zero timeout and no retry preserve the
	// reference behavior of a single unbounded attempt.
	UpstreamTimeoutSeconds int  `envconfig:"UPSTREAM_TIMEOUT_SECONDS" default:"0"`
	UpstreamRetry          bool `envconfig:"UPSTREAM_RETRY" default:"false"`

	// Ingestion
	DocsDir string `envconfig:"DOCS_DIR" default:"./documents"`

	// Resilience
	BootstrapRetryAttempts     int `envconfig:"BOOTSTRAP_RETRY_ATTEMPTS" default:"10"`
	BootstrapRetryDelaySeconds int `envconfig:"BOOTSTRAP_RETRY_DELAY_SECONDS" default:"2"`
}

func Load() (*Config, error) {
	// Try loading .env from current dir and repo root.
	// Ignore errors, as env vars might be set in the shell.
	_ = godotenv.Load(".env")

	cwd, _ := os.Getwd()
	rootEnv := filepath.Join(cwd, "../../.env")
	_ = godotenv.Load(rootEnv)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.OllamaBase == "" {
		return fmt.Errorf("%w: OLLAMA_BASE", ErrMissingRequired)
	}
	if c.ChatModel == "" {
		return fmt.Errorf("%w: OLLAMA_CHAT_MODEL", ErrMissingRequired)
	}
	if c.EmbedModel == "" {
		return fmt.Errorf("%w: OLLAMA_EMBED_MODEL", ErrMissingRequired)
	}
	if c.RetrievalTopK <= 0 {
		return fmt.Errorf("%w: RETRIEVAL_TOP_K must be positive", ErrMissingRequired)
	}
	return nil
}

// StoreConfigured reports whether enough corpus-store configuration is present
// to open a connection. Its absence is a startup warning, not a hard failure.
func (c *Config) StoreConfigured() bool {
	return c.DBHost != ""
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName)
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutSeconds) * time.Second
}
