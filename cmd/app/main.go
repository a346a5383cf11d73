package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/silkmart/support-assistant/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := initializeApp()
	if err != nil {
		log.Fatalf("failed to wire application: %v", err)
	}

	root := cli.NewRootCommand(app)
	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
