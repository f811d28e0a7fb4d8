package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"

	"github.com/skskillls/thesis-benchmark/internal/bench"
	"github.com/skskillls/thesis-benchmark/internal/environment"
	"github.com/skskillls/thesis-benchmark/internal/logscan"
	"github.com/skskillls/thesis-benchmark/internal/publish"
	"github.com/skskillls/thesis-benchmark/internal/publish/natspub"
	"github.com/skskillls/thesis-benchmark/internal/publish/sqspub"
	"github.com/skskillls/thesis-benchmark/internal/results"
)

func measureCommand() *cli.Command {
	// Build commands carry their own flags, so flag parsing has to stop
	// after the five identity arguments instead of scanning the whole argv.
	identityArgCount := 5
	return &cli.Command{
		Name:         "measure",
		Usage:        "run one build command under measurement and record the result",
		ArgsUsage:    "TOOL SERVICE DOCKERFILE_TYPE CACHE_SCENARIO RUN_NUMBER [--] BUILD_CMD [ARG...]",
		StopOnNthArg: &identityArgCount,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "results-dir",
				Usage:   "directory result files are written to",
				Sources: cli.EnvVars("RESULTS_DIR"),
			},
			&cli.BoolFlag{
				Name:  "save-build-log",
				Usage: "archive the combined build output next to the result file",
			},
		},
		Action: runMeasure,
	}
}

func runMeasure(ctx context.Context, cmd *cli.Command) error {
	id, buildCmd, err := parseMeasureArgs(cmd.Args().Slice())
	if err != nil {
		return cli.Exit(fmt.Sprintf("benchmark: %v", err), configErrorExitCode)
	}

	cfg := environment.ReadEnvConfig()
	if dir := cmd.String("results-dir"); dir != "" {
		cfg.ResultsDir = dir
	}
	if cmd.Bool("save-build-log") {
		cfg.SaveBuildLog = true
	}

	scanner := logscan.NewScanner()
	if cfg.PatternsFile != "" {
		if err := scanner.LoadPackFile(cfg.PatternsFile); err != nil {
			return cli.Exit(fmt.Sprintf("benchmark: %v", err), configErrorExitCode)
		}
	}

	writer, err := results.NewWriter(cfg.ResultsDir)
	if err != nil {
		return cli.Exit(fmt.Sprintf("benchmark: %v", err), configErrorExitCode)
	}

	runUuid := uuid.NewString()
	gatherers, cleanup := buildGatherers(ctx, cfg, runUuid)
	defer cleanup()

	slog.Info("starting measured build",
		"run_uuid", runUuid,
		"tool", id.Tool,
		"service", id.Service,
		"dockerfile_type", id.DockerfileType,
		"cache_scenario", id.CacheScenario,
		"run_number", id.RunNumber)

	harness := bench.New(bench.Opts{
		CiSystem:     cfg.CiSystem,
		ImageRef:     cfg.ImageRef,
		SaveBuildLog: cfg.SaveBuildLog,
		Scanner:      scanner,
		Writer:       writer,
		Gatherers:    gatherers,
	})

	exitCode, err := harness.Run(ctx, id, buildCmd)
	if err != nil {
		return cli.Exit(fmt.Sprintf("benchmark: %v", err), 1)
	}
	if exitCode != 0 {
		// empty message: the build's own output already explains the failure
		return cli.Exit("", exitCode)
	}
	return nil
}

func parseMeasureArgs(args []string) (results.Identity, []string, error) {
	if len(args) < 6 {
		return results.Identity{}, nil,
			errors.New("usage: measure TOOL SERVICE DOCKERFILE_TYPE CACHE_SCENARIO RUN_NUMBER -- BUILD_CMD [ARG...]")
	}

	runNumber, err := strconv.Atoi(args[4])
	if err != nil {
		return results.Identity{}, nil, fmt.Errorf("run number %q is not an integer", args[4])
	}

	id := results.Identity{
		Tool:           args[0],
		Service:        args[1],
		DockerfileType: args[2],
		CacheScenario:  args[3],
		RunNumber:      runNumber,
	}
	if err := id.Validate(); err != nil {
		return results.Identity{}, nil, err
	}

	// Flag parsing normally consumes a "--" separator; tolerate one that
	// survived so callers may always write it.
	buildCmd := args[5:]
	if buildCmd[0] == "--" {
		buildCmd = buildCmd[1:]
	}
	if len(buildCmd) == 0 {
		return results.Identity{}, nil, errors.New("no build command given after run number")
	}
	return id, buildCmd, nil
}

func buildGatherers(ctx context.Context, cfg *environment.EnvConfig, runUuid string) ([]publish.Gatherer, func()) {
	gatherers := make([]publish.Gatherer, 0, 2)
	cleanup := func() {}

	if cfg.NatsUrl != "" {
		nc, err := nats.Connect(cfg.NatsUrl, nats.Timeout(3*time.Second))
		if err != nil {
			slog.Warn("failed to connect to NATS, progress messages disabled", "error", err)
		} else {
			gatherers = append(gatherers, natspub.New(nc, runUuid, cfg.NatsSubject))
			cleanup = func() {
				if err := nc.Drain(); err != nil {
					slog.Warn("failed to drain NATS connection", "error", err)
				}
			}
		}
	}

	if cfg.SqsQueueUrl != "" {
		gath, err := sqspub.NewSqsResultQueueGatherer(ctx, runUuid, cfg.SqsQueueUrl)
		if err != nil {
			slog.Warn("failed to set up SQS publisher, progress messages disabled", "error", err)
		} else {
			gatherers = append(gatherers, gath)
		}
	}

	return gatherers, cleanup
}
