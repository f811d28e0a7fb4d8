package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/skskillls/thesis-benchmark/internal/cli"
)

func main() {
	// Exit-coded errors terminate the process inside Run; only plain
	// errors such as flag misuse arrive here.
	if err := cli.New().Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}
