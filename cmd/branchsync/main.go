package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/branchsync/internal/cli"
	"github.com/dmitrijs2005/branchsync/internal/config"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}
	defer app.Close()

	app.Root(ctx)
}
