// Command ls-platesolver plate-solves astrophotos and labels the objects in
// them.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/litescript/ls-platesolver/internal/cli"
	"github.com/litescript/ls-platesolver/internal/logging"
)

func main() {
	logger := logging.New(logging.LevelInfo)

	// Handle signals
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cli.NewRootCmd(logger).ExecuteContext(ctx); err != nil {
		cancel()
		os.Exit(1)
	}
}
