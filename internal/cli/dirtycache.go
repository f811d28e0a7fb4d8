package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/skskillls/thesis-benchmark/internal/dirtycache"
)

func dirtyCacheCommand() *cli.Command {
	return &cli.Command{
		Name:      "dirty-cache",
		Usage:     "append a cache busting comment to source files before a dirty rebuild",
		ArgsUsage: "FILE [FILE...]",
		Action:    runDirtyCache,
	}
}

func runDirtyCache(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return cli.Exit("benchmark: no files given", configErrorExitCode)
	}
	if err := dirtycache.Bust(files); err != nil {
		return cli.Exit(fmt.Sprintf("benchmark: %v", err), 1)
	}
	slog.Info("cache busted", "files", len(files))
	return nil
}
