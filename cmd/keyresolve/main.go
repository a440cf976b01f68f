// Package main is the entry point for the keyresolve command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/keyresolve/internal/cli"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit

	// Handle signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.Execute(ctx)
}
