package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/calistrack/calistrack/internal/buildinfo"
	"github.com/calistrack/calistrack/internal/client/cli"
	"github.com/calistrack/calistrack/internal/client/config"
	"github.com/calistrack/calistrack/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
	}
}
