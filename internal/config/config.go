package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Backend modes.
const (
	BackendAppwrite = "appwrite"
	BackendPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	BotToken string
	Backend  string
	Appwrite AppwriteConfig
	Database DatabaseConfig
	RedisURL string
}

// AppwriteConfig holds the hosted backend coordinates
type AppwriteConfig struct {
	Endpoint            string
	Project             string
	DatabaseID          string
	WordsCollectionID   string
	FoldersCollectionID string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken: os.Getenv("BOT_TOKEN"),
		Backend:  getEnv("BACKEND", BackendAppwrite),
		Appwrite: AppwriteConfig{
			Endpoint:            getEnv("APPWRITE_ENDPOINT", "https://cloud.appwrite.io/v1"),
			Project:             os.Getenv("APPWRITE_PROJECT_ID"),
			DatabaseID:          os.Getenv("APPWRITE_DATABASE_ID"),
			WordsCollectionID:   getEnv("APPWRITE_WORDS_COLLECTION_ID", "words"),
			FoldersCollectionID: getEnv("APPWRITE_FOLDERS_COLLECTION_ID", "folders"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "wordapp"),
			User:     getEnv("DB_USER", "wordapp"),
			Password: os.Getenv("DB_PASSWORD"),
		},
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
	}

	// Validate required fields
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	switch cfg.Backend {
	case BackendAppwrite:
		if cfg.Appwrite.Project == "" {
			return nil, fmt.Errorf("APPWRITE_PROJECT_ID is required")
		}
		if cfg.Appwrite.DatabaseID == "" {
			return nil, fmt.Errorf("APPWRITE_DATABASE_ID is required")
		}
	case BackendPostgres:
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("DB_PASSWORD is required")
		}
	default:
		return nil, fmt.Errorf("unknown BACKEND %q", cfg.Backend)
	}

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
