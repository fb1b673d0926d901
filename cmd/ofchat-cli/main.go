package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yndnr/ofchat-go/internal/cli/command"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := command.App().RunContext(ctx, os.Args)
	stop()

	// The application has already printed err.
	os.Exit(command.ExitCode(err))
}
