// @title Camview API
// @version 1.0.0
// @description Multi-camera RTSP frame server: latest-frame snapshots, MJPEG streaming and polygon region persistence
// @BasePath /
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"camview-go/internal/api"
	"camview-go/internal/config"
	"camview-go/internal/logging"
	"camview-go/internal/services"
)

func main() {
	// Setup structured logging
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg := config.Load()

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Tee logs into the embedded Logdy UI when enabled
	if cfg.LogdyEnabled {
		if logdyWriter, _, err := logging.StartLogdy(cfg); err == nil {
			console := zerolog.ConsoleWriter{Out: os.Stderr}
			log.Logger = log.Output(zerolog.MultiLevelWriter(console, logdyWriter))
		} else {
			log.Warn().Err(err).Msg("Failed to start Logdy, continuing with console logging only")
		}
	}

	log.Info().
		Str("server_id", cfg.ServerID).
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Str("default_mode", cfg.CaptureMode.String()).
		Int("port", cfg.Port).
		Msg("Starting Camview")

	// Camera readers live until process shutdown
	readerCtx, stopReaders := context.WithCancel(context.Background())
	defer stopReaders()

	container, err := services.NewServiceContainer(readerCtx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}

	server, err := api.NewServer(cfg, container)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	stopReaders()
	if err := container.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Services forced to shutdown")
	} else {
		log.Info().Msg("Shutdown complete")
	}
}
