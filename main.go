package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	app "github.com/rocketscienceinc/gobblet-backend/internal"
	"github.com/rocketscienceinc/gobblet-backend/internal/config"
)

// main - is the entry point of the application. It parses the command line and runs the chosen command.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "gobblet",
		Usage: "stacking tic-tac-toe for two players",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the HTTP and WebSocket servers",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Value: "config.yml",
						Usage: "path to the configuration file",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					conf := initConfig(cmd.String("config"))
					logger := initLogger(os.Stdout, conf.LogLevel)

					return app.RunApp(logger, conf)
				},
			},
			{
				Name:  "play",
				Usage: "play a hot-seat game in this terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "log-level",
						Value: "warn",
						Usage: "log level, logs go to stderr",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					logger := initLogger(os.Stderr, cmd.String("log-level"))

					return app.RunTerminal(logger, os.Stdin, os.Stdout)
				},
			},
		},
	}
}

// initialize config.
func initConfig(path string) *config.Config {
	if !filepath.IsAbs(path) {
		baseDir, err := os.Getwd()
		if err != nil {
			panic(fmt.Errorf("failed to get current directory: %w", err))
		}
		path = filepath.Join(baseDir, path)
	}

	return config.MustLoad(path)
}

// initialize logger.
func initLogger(w io.Writer, logLevel string) *slog.Logger {
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
