package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"

	_ "github.com/mylibrary/mylibrary-api/docs" // Swagger docs (generated)
	"github.com/mylibrary/mylibrary-api/internal/auth"
	"github.com/mylibrary/mylibrary-api/internal/book"
	"github.com/mylibrary/mylibrary-api/internal/config"
	"github.com/mylibrary/mylibrary-api/internal/database"
	httpServer "github.com/mylibrary/mylibrary-api/internal/http"
	"github.com/mylibrary/mylibrary-api/internal/logging"
	"github.com/mylibrary/mylibrary-api/internal/user"
)

// @title           MyLibrary API
// @version         1.0
// @description     Multi-tenant personal-library API: register, authenticate, and manage a private book collection.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration; a missing signing secret fails here, before anything starts
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"token_backend", cfg.Auth.TokenBackend,
	)

	// Initialize database connection
	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Initialize token service per configured backend
	tokenService, err := newTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	// Initialize repositories
	userRepo := user.NewRepository(db)
	bookRepo := book.NewRepository(db)

	// Initialize services
	userService := user.NewService(userRepo, logger)
	bookService := book.NewService(bookRepo, logger)
	authService := auth.NewService(user.NewAccountStore(userRepo), tokenService, logger)

	// Initialize HTTP handlers
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	bookHandler := book.NewHandler(bookService)
	authMiddleware := auth.NewMiddleware(tokenService)

	// Initialize router
	router := httpServer.NewRouter(cfg, authHandler, authMiddleware, userHandler, bookHandler, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Printf("Received signal: %v", sig)

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// newTokenService builds the configured token backend
func newTokenService(cfg config.AuthConfig) (auth.TokenService, error) {
	switch cfg.TokenBackend {
	case config.TokenBackendPaseto:
		return auth.NewPasetoService(cfg.PasetoKey, cfg.TokenDuration)
	default:
		return auth.NewJWTService(cfg.JWTSecret, cfg.TokenDuration)
	}
}

// initDB initializes the database connection and returns a Bun DB instance
func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return database.NewBunDB(sqlDB), nil
}
