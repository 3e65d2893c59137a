package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/mindware/taskmaster/config"
	"github.com/mindware/taskmaster/db"
	"github.com/mindware/taskmaster/handlers"
	"github.com/mindware/taskmaster/repositories"
	api "github.com/mindware/taskmaster/routes"
	"github.com/mindware/taskmaster/services"
	"github.com/mindware/taskmaster/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.CreateSchema(dbConn); err != nil {
		logger.Error("failed to create schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Blob store: local upload directory by default, S3-compatible bucket
	// when configured.
	var blobs storage.BlobStore
	if cfg.S3Enabled() {
		blobs, err = storage.NewS3Store(storage.S3StoreConfig{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.S3Bucket,
		})
		if err != nil {
			logger.Error("failed to initialize S3 blob store", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("S3 blob store initialized", slog.String("bucket", cfg.S3Bucket))
	} else {
		blobs, err = storage.NewLocalStore(cfg.UploadDir)
		if err != nil {
			logger.Error("failed to initialize local blob store", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("local blob store initialized", slog.String("dir", cfg.UploadDir))
	}

	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	challengeRepo := repositories.NewPostgresChallengeRepository(dbConn)
	submissionRepo := repositories.NewPostgresSubmissionRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(teamRepo)
	teamService := services.NewTeamService(teamRepo)
	challengeService := services.NewChallengeService(challengeRepo, submissionRepo, blobs, logger)
	submissionService := services.NewSubmissionService(authService, challengeRepo, teamRepo, submissionRepo, blobs, logger)
	archiveService := services.NewArchiveService(challengeRepo, submissionRepo, blobs, logger)
	logger.Info("services initialized")

	// Files written before their record are orphaned by a crash; sweep them
	// away at startup.
	if err := submissionService.SweepOrphans(context.Background()); err != nil {
		logger.Warn("orphan sweep failed", slog.Any("error", err))
	}

	teamHandler := handlers.NewTeamHandler(teamService, authService)
	challengeHandler := handlers.NewChallengeHandler(challengeService)
	submissionHandler := handlers.NewSubmissionHandler(submissionService, archiveService)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(router, cfg, teamHandler, challengeHandler, submissionHandler)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
