package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (overrides CONFIG_PATH)")
	flag.Parse()
	if *configPath != "" {
		if err := os.Setenv("CONFIG_PATH", *configPath); err != nil {
			log.Fatalf("failed to set config path: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := initializeApp()
	if err != nil {
		log.Fatalf("failed to wire application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}
