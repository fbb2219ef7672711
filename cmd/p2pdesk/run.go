package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

// run starts the desk and blocks until a signal arrives or fx asks to shut down.
func run(ctx context.Context, app *fx.App) int {
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "p2pdesk: start: %v\n", err)
		return 1
	}

	select {
	case <-ctx.Done():
	case sig := <-app.Done():
		fmt.Fprintf(os.Stderr, "p2pdesk: shutting down on %s\n", sig)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "p2pdesk: stop: %v\n", err)
		return 1
	}
	return 0
}
