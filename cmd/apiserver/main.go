// API server entry point for the enhanced search service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/texttechlab/enhanced-search/internal/bootstrap"
	"github.com/texttechlab/enhanced-search/internal/config"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}

	app, err := bootstrap.NewApplication(cfg, logger)
	if err != nil {
		logger.Error("application wiring failed", logging.Err(err))
		os.Exit(1)
	}

	logger.Info("starting search server",
		logging.Int("port", cfg.Server.Port),
		logging.String("engine", cfg.Search.Engine),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", logging.Err(err))
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("shutdown signal received", logging.String("signal", sig.String()))
		if err := app.Server.Stop(context.Background()); err != nil {
			logger.Error("shutdown failed", logging.Err(err))
		}
	}

	if err := app.Close(context.Background()); err != nil {
		logger.Warn("shutdown left connections open", logging.Err(err))
	}
}
