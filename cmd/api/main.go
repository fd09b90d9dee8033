package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/joshua-takyi/evently/internal/config"
	"github.com/joshua-takyi/evently/internal/connect"
	"github.com/joshua-takyi/evently/internal/container"
	"github.com/joshua-takyi/evently/internal/helpers"
	"github.com/joshua-takyi/evently/internal/models"
	"github.com/joshua-takyi/evently/internal/routes"
)

func main() {
	// Load environment variables
	_ = godotenv.Load(".env.local")

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg)
	logger.Info("Starting events API server", "environment", cfg.Environment)

	cld, err := connect.CloudinaryCredentials(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		logger.Error("Failed to connect to Cloudinary", "error", err)
		os.Exit(1)
	}

	mongoClient, err := connect.MongoDBConnect(cfg.MongoDBConnectionURI())
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to MongoDB successfully", "database", cfg.MongoDBDatabase)

	eventsRepo := models.MongodbNewRepo(mongoClient, cfg.MongoDBDatabase, cfg.MongoDBOpTimeout)
	if err := eventsRepo.EnsureEventIndexes(context.Background()); err != nil {
		logger.Error("Failed to create event indexes", "error", err)
		os.Exit(1)
	}

	var validator *helpers.TokenValidator
	if cfg.AuthEnabled() {
		validator, err = setupTokenValidator(cfg)
		if err != nil {
			logger.Error("Failed to set up token validation", "error", err)
			os.Exit(1)
		}
		defer validator.Close()
		logger.Info("Bearer auth enabled on write routes")
	} else {
		logger.Warn("Bearer auth disabled, write routes are public")
	}

	images := helpers.NewCloudinaryHost(cld, helpers.EventsFolder)
	appContainer := container.NewContainer(cfg, logger, eventsRepo, images, validator)

	router := routes.SetupRoutes(appContainer)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := connect.MongoDBDisconnect(mongoClient); err != nil {
		logger.Error("Error disconnecting from MongoDB", "error", err)
	}

	logger.Info("Server exited")
}

// setupTokenValidator prefers the JWKS URL over the shared secret.
func setupTokenValidator(cfg *config.Config) (*helpers.TokenValidator, error) {
	if cfg.AuthJWKSURL != "" {
		// the context outlives this call: it owns the background refresh
		return helpers.NewJWKSValidator(context.Background(), cfg.AuthJWKSURL, time.Hour)
	}
	return helpers.NewSecretValidator(cfg.AuthJWTSecret), nil
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.SlogLevel(),
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     cfg.SlogLevel(),
			AddSource: cfg.IsDevelopment(),
		})
	}

	return slog.New(handler)
}
