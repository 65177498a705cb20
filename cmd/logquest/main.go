package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/logquest/pkg/logger"
)

func main() {
	// Stdout carries command output; logs go to stderr.
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
