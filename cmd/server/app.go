package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskwise/taskwise-api/internal/config"
	"github.com/taskwise/taskwise-api/internal/platform/gemini"
	"github.com/taskwise/taskwise-api/internal/platform/postgres"
	"github.com/taskwise/taskwise-api/internal/service"
	"github.com/taskwise/taskwise-api/internal/store"

	// Register the pgx driver with database/sql
	_ "github.com/jackc/pgx/v5/stdlib"
)

// application holds the fully wired dependency graph of the server.
type application struct {
	config      *config.Config
	logger      *slog.Logger
	db          *sql.DB
	taskService service.TaskService
	userService service.UserService
	ownerID     uuid.UUID
}

// newApplication builds the application: database connection, migrations,
// stores, the generation completer, services, and the bootstrapped default
// task owner.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := openDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(db, logger); err != nil {
		closeDatabase(db, logger)
		return nil, err
	}

	taskStore := postgres.NewPostgresTaskStore(db, logger)
	userStore := postgres.NewPostgresUserStore(db, logger)

	completer, err := gemini.NewGeminiCompleter(ctx, logger, cfg.LLM)
	if err != nil {
		closeDatabase(db, logger)
		return nil, fmt.Errorf("failed to create generation completer: %w", err)
	}

	taskService := service.NewTaskService(taskStore, store.NewTransactionManager(db), completer, logger)
	userService := service.NewUserService(userStore, logger)

	// Resolve the default owner once; handlers pass this ID explicitly on
	// every call that creates data. Nothing below the HTTP layer assumes it.
	owner, err := userService.EnsureUser(ctx, cfg.Bootstrap.OwnerEmail, cfg.Bootstrap.OwnerPassword)
	if err != nil {
		closeDatabase(db, logger)
		return nil, fmt.Errorf("failed to bootstrap default owner: %w", err)
	}
	logger.Info("default task owner resolved", "owner_id", owner.ID.String())

	return &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		taskService: taskService,
		userService: userService,
		ownerID:     owner.ID,
	}, nil
}

// Close releases the application's resources.
func (app *application) Close() {
	closeDatabase(app.db, app.logger)
}

// openDatabase opens and verifies the PostgreSQL connection pool.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		closeDatabase(db, logger)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established")
	return db, nil
}

func closeDatabase(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
	}
}
