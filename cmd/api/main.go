// Package main is the entry point for the read API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/darijapress/darijapress/internal/app"
	"github.com/darijapress/darijapress/internal/logger"
)

var (
	// version can be set at build time via -ldflags
	version = "dev"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yml", "Path to configuration file")
	flag.Parse()

	server, err := app.NewAPIServer(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize api server: %v\n", err)
		os.Exit(1)
	}

	server.Logger().Info("api starting", logger.String("version", version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err = <-errCh:
		if err != nil {
			server.Logger().Error("api server error", logger.Error(err))
			os.Exit(1)
		}
	case <-ctx.Done():
		server.Logger().Info("shutdown signal received")
	}

	if err = server.Shutdown(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to shut down api server: %v\n", err)
		os.Exit(1)
	}
}
