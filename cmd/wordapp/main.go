package main

import (
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	postgresdb "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/zsoro2/word-app/internal/config"
	"github.com/zsoro2/word-app/internal/handler"
	"github.com/zsoro2/word-app/internal/middleware"
	"github.com/zsoro2/word-app/internal/store"
	"github.com/zsoro2/word-app/internal/store/appwrite"
	"github.com/zsoro2/word-app/internal/store/postgres"
	sessredis "github.com/zsoro2/word-app/internal/store/redis"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting word-app bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded", zap.String("backend", cfg.Backend))

	// Build the backend factory; each chat gets its own Backend because the
	// account session token is per-identity state.
	var backends store.Factory
	switch cfg.Backend {
	case config.BackendAppwrite:
		backends = appwriteFactory(cfg)

	case config.BackendPostgres:
		db, err := connectDatabase(cfg.DSN(), logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := runMigrations(db, logger); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}

		sessions, err := sessredis.NewSessionStore(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer sessions.Close()

		backends = postgresFactory(db, sessions)
	}

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	// Initialize handler
	h := handler.NewHandler(bot, backends, logger)
	bot.Use(middleware.Auth(h, logger))
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	bot.Stop()

	logger.Info("Bot stopped gracefully")
}

// appwriteFactory builds hosted-backend connections.
func appwriteFactory(cfg *config.Config) store.Factory {
	return func() store.Backend {
		client := appwrite.NewClient(appwrite.Config{
			Endpoint:            cfg.Appwrite.Endpoint,
			Project:             cfg.Appwrite.Project,
			DatabaseID:          cfg.Appwrite.DatabaseID,
			WordsCollectionID:   cfg.Appwrite.WordsCollectionID,
			FoldersCollectionID: cfg.Appwrite.FoldersCollectionID,
		})
		return store.Backend{Accounts: client, Words: client, Folders: client}
	}
}

// postgresFactory builds self-hosted connections. Word and folder repos are
// stateless and shared; the account repo carries the session token, so each
// backend gets a fresh one.
func postgresFactory(db *sql.DB, sessions *sessredis.SessionStore) store.Factory {
	words := postgres.NewWordRepo(db)
	folders := postgres.NewFolderRepo(db)
	return func() store.Backend {
		return store.Backend{
			Accounts: postgres.NewAccountRepo(db, sessions),
			Words:    words,
			Folders:  folders,
		}
	}
}

// connectDatabase connects to PostgreSQL with retries
func connectDatabase(dsn string, logger *zap.Logger) (*sql.DB, error) {
	var db *sql.DB
	var err error

	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			logger.Warn("Failed to open database connection",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			time.Sleep(retryDelay)
			continue
		}

		// Test connection
		if err = db.Ping(); err != nil {
			logger.Warn("Failed to ping database",
				zap.Int("attempt", i+1),
				zap.Error(err),
			)
			db.Close()
			time.Sleep(retryDelay)
			continue
		}

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB, logger *zap.Logger) error {
	driver, err := postgresdb.WithInstance(db, &postgresdb.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Migrations up to date")
	return nil
}
