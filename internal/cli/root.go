package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

const Version = "0.4.0"

const configErrorExitCode = 2

// New assembles the benchmark command tree.
func New() *cli.Command {
	return &cli.Command{
		Name:    "benchmark",
		Usage:   "measure container image builds and collect the results",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			measureCommand(),
			aggregateCommand(),
			doctorCommand(),
			dirtyCacheCommand(),
		},
	}
}

// setupLogging routes harness logs to stderr so that stdout stays reserved
// for the live build output and the summary line.
func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	w := os.Stderr
	slog.SetDefault(slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(w.Fd()),
	})))
	return ctx, nil
}
