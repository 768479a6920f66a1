package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/growthpods/growthpods/internal/buildinfo"
	"github.com/growthpods/growthpods/internal/client/cli"
	"github.com/growthpods/growthpods/internal/client/config"
	"github.com/growthpods/growthpods/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
