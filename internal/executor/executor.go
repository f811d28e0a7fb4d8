package executor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"syscall"
	"time"
)

// StartFailureExitCode is recorded when the command could not be launched
// at all, matching the shell convention for "command not found".
const StartFailureExitCode = 127

// RunResult carries everything observed about one finished command.
type RunResult struct {
	CombinedOut []byte
	ExitCode    int
	WallSec     float64
}

// Run executes argv, capturing interleaved stdout and stderr in full while
// echoing them live to echo. A non-zero exit is a normal outcome reported
// through ExitCode, not through the error value; the error is reserved for
// commands that never started. WallSec is a monotonic-clock measurement
// kept as the duration source when no precision backend wraps the command.
func Run(ctx context.Context, argv []string, echo io.Writer) (*RunResult, error) {
	if len(argv) == 0 {
		return &RunResult{ExitCode: StartFailureExitCode}, errors.New("empty command")
	}
	if echo == nil {
		echo = io.Discard
	}

	var buf bytes.Buffer
	sink := io.MultiWriter(&buf, echo)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = sink
	cmd.Stderr = sink

	start := time.Now()
	err := cmd.Run()
	wall := time.Since(start).Seconds()

	res := &RunResult{CombinedOut: buf.Bytes(), WallSec: wall}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			res.ExitCode = StartFailureExitCode
			return res, err
		}
		res.ExitCode = exitCodeOf(exitErr)
	}
	return res, nil
}

// exitCodeOf maps a signal death to 128+signal the way shells report it,
// so the propagated status stays meaningful for CI consumers.
func exitCodeOf(exitErr *exec.ExitError) int {
	code := exitErr.ExitCode()
	if code >= 0 {
		return code
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return 1
}
