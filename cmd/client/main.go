package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kuba1e/food-delivery/internal/buildinfo"
	"github.com/kuba1e/food-delivery/internal/client/cli"
	"github.com/kuba1e/food-delivery/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.Run(ctx)

}
