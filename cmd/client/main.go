package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	shell "github.com/dmitrijs2005/flashcards/internal/client/cli"
	"github.com/dmitrijs2005/flashcards/internal/client/config"
	"github.com/dmitrijs2005/flashcards/internal/logging"
)

var version = "dev"

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"),
		config.WithAPIBaseURL(cmd.String("api-url")),
		config.WithSessionDBPath(cmd.String("db")),
		config.WithLogLevel(cmd.String("log-level")),
		config.WithRequestTimeout(cmd.Duration("timeout")),
	)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.NewTextLogger(os.Stderr, level)

	app, err := shell.NewApp(ctx, cfg, shell.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to start client: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	return app.Run(ctx)
}

func main() {
	cmd := &cli.Command{
		Name:    "flashcards",
		Usage:   "Terminal client for the flashcards service",
		Version: version,
		Action:  run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a JSON or YAML config file",
				Sources: cli.EnvVars("FLASHCARDS_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "Backend base URL, e.g. http://localhost:8000/api",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "SQLite file holding the session",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-request timeout",
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
