package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		// The logger may not be initialized if setup failed.
		os.Stderr.WriteString(app + ": " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
