package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/digimarket/internal/client/cli"
	"github.com/iudanet/digimarket/internal/client/iocli"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Уровень выставляется из конфигурации после разбора флагов
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cli.New(iocli.NewStdio(),
		cli.WithLogger(logger),
		cli.WithLevel(level),
		cli.WithVersion(cli.VersionInfo{
			Version:   Version,
			BuildDate: BuildDate,
			GitCommit: GitCommit,
		}),
	)

	if err := c.Execute(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.ErrorMessage(err))
		stop()
		os.Exit(1)
	}
}
