package main

import (
	"context"
	"log"
	"os"

	"github.com/kuba1e/food-delivery/internal/buildinfo"
	"github.com/kuba1e/food-delivery/internal/server"
	"github.com/kuba1e/food-delivery/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
