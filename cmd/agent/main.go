// Package main is the entry point for the generation agent.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/darijapress/darijapress/internal/app"
	"github.com/darijapress/darijapress/internal/logger"
)

var (
	// version can be set at build time via -ldflags
	version = "dev"
)

func main() {
	var configPath string
	var once bool
	flag.StringVar(&configPath, "config", "config.yml", "Path to configuration file")
	flag.BoolVar(&once, "once", false, "Run a single batch and exit instead of scheduling")
	flag.Parse()

	ctx := context.Background()

	agent, err := app.NewAgent(ctx, configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize agent: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := agent.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to close agent: %v\n", closeErr)
		}
	}()

	agent.Logger().Info("agent starting", logger.String("version", version))

	if once {
		completed, runErr := agent.RunOnce(ctx)
		if runErr != nil {
			agent.Logger().Error("batch failed", logger.Error(runErr))
			os.Exit(1)
		}
		agent.Logger().Info("batch finished", logger.Int("completed", completed))
		return
	}

	if runErr := agent.RunScheduled(ctx); runErr != nil {
		agent.Logger().Error("agent error", logger.Error(runErr))
		os.Exit(1)
	}
}
