package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/djx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	environ, err := shared.ParseEnviron()
	if err != nil {
		logger.Fatalf("failed to read environment: %v", err)
	}

	if environ.LogLevel != "" {
		if level, err := log.ParseLevel(environ.LogLevel); err == nil {
			shared.SetLogLevel(logger, level)
		} else {
			logger.Warn("unrecognized log level", "value", environ.LogLevel)
		}
	}

	runner := NewRunner(RunnerOpts{
		Environ: environ,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "djx",
		Usage:    "Connect Mixcloud & SoundCloud accounts from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
