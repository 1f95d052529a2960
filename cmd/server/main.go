// Package main initializes and starts the Notely API server, setting
// up configuration, logging, the database connection, repositories,
// services, handlers, and routing.
package main

import (
	"cmp"
	"fmt"

	nethttp "net/http"

	"github.com/notely/notely/internal/config"
	"github.com/notely/notely/internal/db"
	"github.com/notely/notely/internal/logger"
	"github.com/notely/notely/internal/repository"
	"github.com/notely/notely/internal/server/handler/http"
	"github.com/notely/notely/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if options.JWTSecret == "" {
		zapLogger.Fatal("JWT secret is required (-s flag or JWT_SECRET)")
	}
	secret := []byte(options.JWTSecret)

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories.
	userRepo := repository.NewPostgresUserRepository(postgresDB)
	noteRepo := repository.NewPostgresNoteRepository(postgresDB)
	notebookRepo := repository.NewPostgresNotebookRepository(postgresDB)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, secret, options.TokenTTL)
	noteService := service.NewNoteService(noteRepo, userRepo, notebookRepo)
	notebookService := service.NewNotebookService(notebookRepo)

	// Create HTTP handlers.
	authHandler := &http.AuthHandler{AuthService: authService, Logger: zapLogger}
	noteHandler := &http.NoteHandler{NoteService: noteService, Logger: zapLogger}
	notebookHandler := &http.NotebookHandler{NotebookService: notebookService, Logger: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, noteHandler, notebookHandler, secret, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Port,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
