package main

import (
	"context"
	"log"

	"github.com/quisipp/onboard/internal/client/cli"
	"github.com/quisipp/onboard/internal/client/config"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("error initializing app: %s", err.Error())
	}

	app.Run(ctx)
}
