package bench

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/fatih/color"
	"github.com/skskillls/thesis-benchmark/internal/executor"
	"github.com/skskillls/thesis-benchmark/internal/gnutime"
	"github.com/skskillls/thesis-benchmark/internal/imagestore"
	"github.com/skskillls/thesis-benchmark/internal/logscan"
	"github.com/skskillls/thesis-benchmark/internal/publish"
	"github.com/skskillls/thesis-benchmark/internal/results"
)

// Opts configures a Harness. Writer is required; the remaining fields fall
// back to sensible defaults when left zero.
type Opts struct {
	CiSystem     string
	ImageRef     string
	SaveBuildLog bool

	Scanner   *logscan.Scanner
	Images    *imagestore.Store
	Writer    *results.Writer
	Gatherers []publish.Gatherer

	// Stdout receives the live build output and the summary line.
	Stdout io.Writer

	// Detect locates the timing facility. It runs once per measured build
	// so that environment changes between runs are picked up.
	Detect func(candidates ...string) (*gnutime.Facility, bool)
}

// Harness runs one build command under measurement and persists the result.
type Harness struct {
	ciSystem     string
	imageRef     string
	saveBuildLog bool

	scanner   *logscan.Scanner
	images    *imagestore.Store
	writer    *results.Writer
	gatherers []publish.Gatherer

	stdout io.Writer
	detect func(candidates ...string) (*gnutime.Facility, bool)
}

func New(opts Opts) *Harness {
	h := &Harness{
		ciSystem:     opts.CiSystem,
		imageRef:     opts.ImageRef,
		saveBuildLog: opts.SaveBuildLog,
		scanner:      opts.Scanner,
		images:       opts.Images,
		writer:       opts.Writer,
		gatherers:    opts.Gatherers,
		stdout:       opts.Stdout,
		detect:       opts.Detect,
	}
	if h.scanner == nil {
		h.scanner = logscan.NewScanner()
	}
	if h.images == nil {
		h.images = imagestore.New()
	}
	if h.stdout == nil {
		h.stdout = os.Stdout
	}
	if h.detect == nil {
		h.detect = gnutime.Detect
	}
	return h
}

// Run executes buildCmd under measurement and writes the result record.
// The returned int is the build command's exit code, to be propagated as the
// harness's own exit status. The error is reserved for harness failures such
// as an unwritable results directory; a failing build is not an error.
func (h *Harness) Run(ctx context.Context, id results.Identity, buildCmd []string) (int, error) {
	if err := id.Validate(); err != nil {
		return 0, err
	}
	if len(buildCmd) == 0 {
		return 0, errors.New("no build command given")
	}
	if h.writer == nil {
		return 0, errors.New("no results writer configured")
	}

	for _, g := range h.gatherers {
		g.StartRun(id)
	}

	argv := buildCmd
	reportPath := ""
	facility, haveTime := h.detect()
	if haveTime {
		path, err := gnutime.NewReportFile()
		if err != nil {
			slog.Warn("failed to create timing report file, falling back to wall clock", "error", err)
			haveTime = false
		} else {
			reportPath = path
			defer os.Remove(reportPath)
			argv = facility.Wrap(reportPath, buildCmd)
		}
	} else {
		slog.Info("GNU time not found, cpu and memory metrics will read zero")
	}

	res, runErr := executor.Run(ctx, argv, h.stdout)
	if runErr != nil {
		slog.Warn("build command did not start", "error", runErr)
	}

	perf := h.assemblePerformance(res, reportPath, haveTime)

	img := h.images.Inspect(h.imageRef)
	perf.ImageSize = img.Size
	perf.ImageSizeBytes = img.SizeBytes

	an := h.scanner.Scan(id.Tool, res.CombinedOut)
	perf.CacheHits = an.Hits
	perf.CacheTotalSteps = an.Total
	perf.CacheHitRatio = an.Ratio

	rec := results.NewRecord(id, h.ciSystem, res.ExitCode, perf)

	path, err := h.writer.Write(rec)
	if err != nil {
		return res.ExitCode, fmt.Errorf("failed to write result file: %w", err)
	}
	if h.saveBuildLog {
		if _, err := h.writer.WriteBuildLog(id, res.CombinedOut); err != nil {
			slog.Warn("failed to archive build log", "error", err)
		}
	}

	for _, g := range h.gatherers {
		g.FinishRun(rec)
	}

	h.printSummary(rec, path)

	return res.ExitCode, nil
}

// assemblePerformance reads the timing report if one was requested and
// produced. A missing or unreadable report degrades to wall clock timing
// with zeroed cpu and memory fields.
func (h *Harness) assemblePerformance(res *executor.RunResult, reportPath string, haveTime bool) results.Performance {
	fallback := results.Performance{BuildDurationSec: round2(res.WallSec)}
	if !haveTime {
		return fallback
	}

	raw, err := os.ReadFile(reportPath)
	if err != nil {
		slog.Warn("failed to read timing report, falling back to wall clock", "error", err)
		return fallback
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		// The wrapper never got far enough to write a report, for
		// example when the build command could not be started.
		return fallback
	}

	rep := gnutime.ParseReport(raw)
	return results.Performance{
		BuildDurationSec: rep.WallSec,
		CpuPercent:       rep.CpuPercent,
		CpuUserSec:       rep.UserSec,
		CpuSystemSec:     rep.SysSec,
		MemoryPeakMb:     rep.MemoryMb(),
	}
}

func (h *Harness) printSummary(rec *results.Record, path string) {
	status := color.GreenString("ok")
	if rec.ExitCode != 0 {
		status = color.RedString("fail")
	}
	fmt.Fprintf(h.stdout, "%s %s/%s %s %s run%d: %.2fs cpu=%.1f%% mem=%.2fMB size=%s cache=%d/%d (%.4f) exit=%d -> %s\n",
		status,
		rec.Tool, rec.Service, rec.DockerfileType, rec.CacheScenario, rec.RunNumber,
		rec.Performance.BuildDurationSec,
		rec.Performance.CpuPercent,
		rec.Performance.MemoryPeakMb,
		rec.Performance.ImageSize,
		rec.Performance.CacheHits, rec.Performance.CacheTotalSteps, rec.Performance.CacheHitRatio,
		rec.ExitCode,
		path)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
