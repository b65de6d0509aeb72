package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ottworks/streamserve/internal/config"
	"github.com/ottworks/streamserve/internal/database"
	"github.com/ottworks/streamserve/internal/events"
	"github.com/ottworks/streamserve/internal/logger"
	"github.com/ottworks/streamserve/internal/server"
)

func main() {
	configPath := os.Getenv("STREAMSERVE_CONFIG")
	if err := config.Load(configPath); err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	cfg := config.Get()

	if configPath != "" {
		fw, err := config.WatchFile(config.GetConfigManager(), configPath)
		if err != nil {
			logger.Warn("Config file watching disabled: %v", err)
		} else {
			defer fw.Stop()
		}
	}

	if err := database.Initialize(); err != nil {
		logger.Error("Failed to initialize database: %v", err)
		os.Exit(1)
	}

	r, err := server.SetupRouter()
	if err != nil {
		logger.Error("Failed to set up server: %v", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: cfg.Server.ReadTimeout,
		// WriteTimeout comes from config and defaults to 0 so in-flight
		// streams are never cut mid-body.
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("streamserve listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if bus := events.GetGlobalEventBus(); bus != nil {
		bus.PublishAsync(events.NewSystemEvent(events.EventSystemStopped, "System Stopped", "streamserve shutting down"))
		if err := bus.Stop(ctx); err != nil {
			logger.Warn("Event bus shutdown: %v", err)
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown: %v", err)
	}
	logger.Info("Server stopped")
}
