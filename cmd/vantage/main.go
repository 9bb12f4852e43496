// Package main provides the entry point for the Vantage client.
//
// Vantage runs business health assessments and tracks the resulting action
// plan on a kanban board. Without arguments it starts the Bubbletea
// interface; subcommands cover sign-in, the action list, email verification
// and team invitations.
//
// Usage:
//
//	vantage [command] [flags]
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/riordanpawley/vantage/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
