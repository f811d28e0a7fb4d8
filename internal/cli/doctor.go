package cli

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/skskillls/thesis-benchmark/internal/doctor"
	"github.com/skskillls/thesis-benchmark/internal/environment"
)

func doctorCommand() *cli.Command {
	return &cli.Command{
		Name:   "doctor",
		Usage:  "check that the measurement environment is usable",
		Action: runDoctor,
	}
}

func runDoctor(ctx context.Context, cmd *cli.Command) error {
	doctor.Run(os.Stdout, environment.ReadEnvConfig())
	return nil
}
