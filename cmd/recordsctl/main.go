package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yigit/studentrecords/internal/bootstrap"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/logger"
)

func main() {
	deps, err := bootstrap.Setup(bootstrap.ConfigPath())
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize application")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	cli := commandLine{
		svc: deps.Services,
		out: os.Stdout,
		migrate: func(ctx context.Context) error {
			return bootstrap.Migrate(ctx, deps.Config, deps.DB, deps.Logger)
		},
	}
	err = cli.run(ctx, os.Args)

	stop()
	if cerr := deps.Close(); cerr != nil {
		logger.Error().Err(cerr).Msg("Failed to close database")
	}
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "error: %s\n", apperrors.UserMessage(err))
		}
		os.Exit(1)
	}
}
