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

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"parm-catalog/config"
	"parm-catalog/internal/api"
	"parm-catalog/internal/catalog"
	"parm-catalog/internal/db"
	"parm-catalog/internal/logging"
	"parm-catalog/internal/reservation"
	"parm-catalog/internal/session"
	"parm-catalog/internal/shell"
	"parm-catalog/internal/store"
	"parm-catalog/internal/view"
)

func main() {
	// A missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, configPath)
	stop()
	if err != nil {
		slog.Error("parmd exited", "error", err)
		os.Exit(1)
	}
}

// run serves the catalog until ctx is done or the listener fails. Every
// resource it opens is released before it returns.
func run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
	}

	logger, logCloser, err := logging.Setup(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}, cfg.Logging.Directory)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "path", configPath)

	if logging.ParseLevel(cfg.Logging.Level) > slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()
	logger.Info("database initialized", "driver", cfg.Database.Driver)

	appStore := store.NewGormStore(gormDB)

	// The catalog is read once and shared by every session.
	cat, err := store.LoadCatalog(ctx, appStore)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("catalog loaded", "categories", cat.Tree.Len(), "assets", len(cat.Assets))

	reservations := reservationSource(cfg, appStore)
	logger.Info("reservation source selected", "source", cfg.Reservations.Source)

	images := catalog.ImageResolver{
		StorageRootPrefix: cfg.Images.StorageRootPrefix,
		WebPathPrefix:     cfg.Images.WebPathPrefix,
	}
	sessions := session.NewRegistry(cfg.Server.SessionTTL, func() *shell.AppShell {
		return shell.New(cat, reservations,
			shell.WithImages(images),
			shell.WithDescendants(cfg.Catalog.IncludeDescendants),
			shell.WithLogger(logger))
	}, logger)

	// Initialize router
	router := api.NewRouter(cfg, appStore, cat, sessions, reservations, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server in a goroutine
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("HTTP server ListenAndServe: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping services")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server Shutdown", "error", err)
	}

	logger.Info("server gracefully stopped")
	return nil
}

func reservationSource(cfg *config.Config, s store.Store) view.ReservationSource {
	if cfg.Reservations.Source == config.SourceMock {
		return reservation.NewMockSource(cfg.Reservations.Seed)
	}
	return reservation.NewStoreSource(s)
}
