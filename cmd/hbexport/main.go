// Package main is the entry point for the hbexport CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"hbexport/internal/backend/googletasks"
	"hbexport/internal/cli"
	"hbexport/internal/commands"
	"hbexport/internal/config"
	"hbexport/internal/habitica"
	"hbexport/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := func(ctx context.Context, cfg *config.Config) (service.Source, error) {
		return habitica.New(cfg), nil
	}
	sink := func(ctx context.Context, cfg *config.Config) (service.Sink, error) {
		return googletasks.New(ctx, cfg)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, source, sink)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
