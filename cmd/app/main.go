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

	"fulfillment/cmd"
	"fulfillment/internal/adapters/in/catalogfile"
	"fulfillment/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	configs := getConfigs()

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.LogLevel}))
	slog.SetDefault(slogger)

	gormDB := mustGormOpen(configs)
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, slogger)
	defer func() {
		if err := app.Close(); err != nil {
			slogger.Error("Failed to close producer", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seedCatalog(ctx, app, configs.ShippingCatalogFile)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	e, err := app.CreateHTTPServer()
	if err != nil {
		log.Fatalf("failed to build http server: %v", err)
	}
	startWebServer(ctx, e, configs.HTTPPort, slogger)
}

// getConfigs reads the environment. A .env file is optional.
func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config, err := cmd.ConfigFromEnv(os.Getenv)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	return config
}

func mustGormOpen(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("connection to postgres through gorm: %v", err)
	}
	return gormDB
}

func seedCatalog(ctx context.Context, app *cmd.CompositionRoot, path string) {
	if path == "" {
		return
	}
	catalog, err := catalogfile.LoadFile(path)
	if err != nil {
		log.Fatalf("failed to read shipping catalog %s: %v", path, err)
	}
	if _, err = app.CreateCatalogSeeder().Seed(ctx, catalog); err != nil {
		log.Fatalf("failed to seed shipping catalog: %v", err)
	}
}

func startWebServer(ctx context.Context, e *echo.Echo, port string, slogger *slog.Logger) {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			slogger.Error("HTTP shutdown failed", "error", err)
		}
	}()

	slogger.Info("HTTP server listening", "port", port)
	if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		e.Logger.Fatal(err)
	}
}
