package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/skskillls/thesis-benchmark/internal/aggregate"
	"github.com/skskillls/thesis-benchmark/internal/environment"
)

func aggregateCommand() *cli.Command {
	return &cli.Command{
		Name:  "aggregate",
		Usage: "merge result files into one CSV and print per-configuration means",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "results-dir",
				Usage:   "directory result files are read from",
				Sources: cli.EnvVars("RESULTS_DIR"),
			},
			&cli.StringFlag{
				Name:    "csv",
				Usage:   "path of the merged CSV file",
				Sources: cli.EnvVars("OUTPUT_CSV"),
			},
		},
		Action: runAggregate,
	}
}

func runAggregate(ctx context.Context, cmd *cli.Command) error {
	cfg := environment.ReadEnvConfig()
	if dir := cmd.String("results-dir"); dir != "" {
		cfg.ResultsDir = dir
	}
	csvPath := cmd.String("csv")
	if csvPath == "" {
		csvPath = cfg.OutputCsv
	}
	if csvPath == "" {
		csvPath = filepath.Join(cfg.ResultsDir, "benchmark_results.csv")
	}

	recs, err := aggregate.LoadDir(ctx, cfg.ResultsDir)
	if err != nil {
		return cli.Exit(fmt.Sprintf("benchmark: %v", err), 1)
	}
	if len(recs) == 0 {
		slog.Warn("no result files found", "dir", cfg.ResultsDir)
		return nil
	}

	f, err := os.Create(csvPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("benchmark: %v", err), 1)
	}
	if err := aggregate.WriteCsv(f, recs); err != nil {
		f.Close()
		return cli.Exit(fmt.Sprintf("benchmark: %v", err), 1)
	}
	if err := f.Close(); err != nil {
		return cli.Exit(fmt.Sprintf("benchmark: %v", err), 1)
	}
	slog.Info("wrote merged results", "csv", csvPath, "records", len(recs))

	aggregate.RenderSummary(os.Stdout, recs)
	return nil
}
