package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/fx"
)

// run blocks until a signal arrives or a component asks for shutdown, then stops
// the graph within fx's stop timeout.
func run(ctx context.Context, app *fx.App) {
	startCtx, cancelStart := context.WithTimeout(ctx, app.StartTimeout())
	err := app.Start(startCtx)
	cancelStart()
	if err != nil {
		fmt.Fprintf(os.Stderr, "paywebhook: start: %v\n", err)
		os.Exit(1)
	}

	var code int
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		code = sig.ExitCode
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
	err = app.Stop(stopCtx)
	cancelStop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "paywebhook: stop: %v\n", err)
		code = 1
	}
	if code != 0 {
		os.Exit(code)
	}
}
