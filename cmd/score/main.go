package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/confscore/internal/cli"
	"github.com/okian/confscore/pkg/logger"
)

var version = "v0.0.1-default"

func main() {
	if err := logger.InitWithWriter(os.Stderr); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.New(version, os.Stdin, os.Stdout).Run(ctx, os.Args); err != nil {
		logger.Get().Error(ctx, "fatal error", logger.Error(err))
		stop()
		os.Exit(1)
	}
}
