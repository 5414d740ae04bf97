// Package main is the entry point for the ticketsync CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/runoshun/ticketsync/internal/app"
	"github.com/runoshun/ticketsync/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

// newRootCommand is a variable so tests can substitute the command tree.
var newRootCommand = cli.NewRootCommand

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// Create dependency injection container
	container, err := app.New(cwd)
	if err != nil {
		return runWithoutContainer(fmt.Errorf("failed to initialize: %w", err))
	}

	// Interrupting a create run stops it between remote calls.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCommand(container, version).ExecuteContext(ctx)
}

// runWithoutContainer handles cases where the workspace cannot be opened.
// Help and version still work; every other command reports initErr.
func runWithoutContainer(initErr error) error {
	if canRunWithoutContainer(os.Args[1:]) {
		return newRootCommand(nil, version).Execute()
	}
	return initErr
}

func canRunWithoutContainer(args []string) bool {
	if len(args) == 0 {
		return true
	}
	if args[0] == "help" {
		return true
	}
	for _, arg := range args {
		if arg == "--version" || arg == "--help" || arg == "-h" {
			return true
		}
	}
	return false
}
