package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/zdziszkee/swiftcodes/internal/api/handlers"
	"github.com/zdziszkee/swiftcodes/internal/api/router"
	config "github.com/zdziszkee/swiftcodes/internal/configurations"
	"github.com/zdziszkee/swiftcodes/internal/importer"
	"github.com/zdziszkee/swiftcodes/internal/logging"
	repository "github.com/zdziszkee/swiftcodes/internal/repositories"
	service "github.com/zdziszkee/swiftcodes/internal/services"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	loadFile := flag.String("load", "", "Path to a SWIFT codes CSV or XLSX file to import on startup")
	importOnly := flag.Bool("import-only", false, "Exit after the import instead of serving requests")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	// Override config with command line flags if provided
	if *loadFile != "" {
		cfg.Data.SwiftCodesFile = *loadFile
		cfg.Data.AutoLoad = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeDB, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("type", cfg.Database.Type).Msg("failed to initialize database")
	}
	defer func() {
		if err := closeDB(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	if cfg.Data.AutoLoad {
		importCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
		_, err := importer.New(repo, cfg.Data.BatchSize).ImportFile(importCtx, cfg.Data.SwiftCodesFile)
		cancel()
		if err != nil {
			log.Warn().Err(err).Str("file", cfg.Data.SwiftCodesFile).Msg("failed to load swift codes")
		}
	}
	if *importOnly {
		return
	}

	swiftHandler := handlers.NewSwiftHandler(service.NewSwiftService(repo))
	app := router.SetupRoutes(swiftHandler, router.Options{
		AppName:  cfg.AppName,
		BasePath: cfg.Server.BasePath,
	})

	// Start server in a goroutine so we can handle graceful shutdown
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Address()).Str("base_path", cfg.Server.BasePath).Msg("server starting")
		serverErr <- app.Listen(cfg.Server.Address(), fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("server error")
		}
		return
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server exiting")
}
