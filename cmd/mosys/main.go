package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(reportError(err))
	}
}

// reportError prints err unless it was already logged and returns the
// process exit code.
func reportError(err error) int {
	var exit *exitError
	silent := errors.As(err, &exit) && (exit.silent || exit.err == nil)
	if !silent && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
	}
	return exitCodeOf(err)
}
