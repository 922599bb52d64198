package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tasknest/tasknest-api/internal/config"
	"github.com/tasknest/tasknest-api/internal/mail"
	"github.com/tasknest/tasknest-api/internal/platform/postgres"
	"github.com/tasknest/tasknest-api/internal/platform/sendgrid"
	"github.com/tasknest/tasknest-api/internal/service"
	"github.com/tasknest/tasknest-api/internal/service/auth"
	"github.com/tasknest/tasknest-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore    store.UserStore
	sessionStore store.SessionStore
	taskStore    store.TaskStore

	// Service interfaces
	jwtService  auth.JWTService
	userService *service.UserService
	taskService *service.TaskService

	// Outbound email
	mailDispatcher *mail.Dispatcher
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	hasher := auth.NewBcryptHasher()

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.sessionStore = postgres.NewPostgresSessionStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	app.mailDispatcher, err = setupMailDispatcher(app)
	if err != nil {
		return nil, fmt.Errorf("failed to set up mail dispatcher: %w", err)
	}

	app.userService, err = service.NewUserService(
		db,
		app.userStore,
		app.sessionStore,
		app.taskStore,
		app.jwtService,
		hasher,
		hasher,
		app.mailDispatcher,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.taskService, err = service.NewTaskService(app.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// setupMailDispatcher starts the background email workers. Without a
// SendGrid API key deliveries go to the log instead of the wire, which
// keeps local development working.
func setupMailDispatcher(app *application) (*mail.Dispatcher, error) {
	var mailer mail.Mailer

	if app.config.Email.SendGridAPIKey != "" {
		sg, err := sendgrid.NewMailer(app.config.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to create sendgrid mailer: %w", err)
		}
		mailer = sg
		app.logger.Info("SendGrid mailer initialized",
			"from", app.config.Email.FromAddress)
	} else {
		mailer = mail.NewLogMailer(app.logger)
		app.logger.Warn("No SendGrid API key configured, emails will be logged only")
	}

	dispatcher := mail.NewDispatcher(mailer, mail.DispatcherConfig{
		QueueSize:   app.config.Email.QueueSize,
		WorkerCount: app.config.Email.WorkerCount,
	}, app.logger)

	dispatcher.Start()
	return dispatcher, nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.mailDispatcher != nil {
		app.mailDispatcher.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
