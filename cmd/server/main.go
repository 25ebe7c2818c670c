// Package main is the entry point for the folioview portfolio and watchlist service.
//
// Startup order:
//  1. Load configuration from the environment (.env supported)
//  2. Wire databases, repositories, services and jobs via the DI container
//  3. Seed holdings and watchlist data when SEED_ON_START is set
//  4. Start the maintenance scheduler and the HTTP server
//  5. Wait for SIGINT/SIGTERM and shut everything down in reverse order
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/folioview/internal/config"
	"github.com/aristath/folioview/internal/di"
	"github.com/aristath/folioview/internal/server"
	"github.com/aristath/folioview/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Bool("dev_mode", cfg.DevMode).
		Msg("Starting folioview")

	container, _, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close databases")
		}
	}()

	if cfg.SeedOnStart {
		if err := container.Seeder.Run(cfg.SeedFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed data")
		}
	} else {
		log.Info().Msg("Seeding disabled, keeping stored data")
	}

	container.Scheduler.Start()

	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Container: container,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down")

	container.Scheduler.Stop()

	container.EventBus.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
