// Package main is the entry point for the stale CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/stale/cmd/stale/commands"
	"go.trai.ch/stale/internal/app"
	"go.trai.ch/stale/internal/core/domain"
	_ "go.trai.ch/stale/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, provideComponents))
}

func provideComponents(ctx context.Context) (*app.Components, func(), error) {
	c, _, err := graft.ExecuteFor[*app.Components](ctx)
	return c, func() {}, err
}

func run(
	ctx context.Context,
	args []string,
	stdout, stderr io.Writer,
	provider ComponentProvider,
) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	logSettings, _ := components.Logger.(commands.LogSettings)

	cli := commands.New(components.App, logSettings)
	cli.SetArgs(args)
	cli.SetOutput(stdout, stderr)

	err = cli.Execute(ctx)
	if closeErr := components.App.Close(); closeErr != nil {
		components.Logger.Warn("failed to flush telemetry: " + closeErr.Error())
	}

	if err != nil {
		// Stale sources were already reported on stdout.
		if errors.Is(err, domain.ErrStaleSources) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
