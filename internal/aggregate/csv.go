package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/skskillls/thesis-benchmark/internal/results"
)

// Column order matters: downstream notebooks address columns by position.
var csvHeader = []string{
	"tool",
	"service",
	"dockerfile_type",
	"cache_scenario",
	"run_number",
	"timestamp",
	"ci_system",
	"build_duration_seconds",
	"cpu_percent",
	"cpu_user_seconds",
	"cpu_system_seconds",
	"memory_peak_mb",
	"image_size",
	"image_size_bytes",
	"cache_hits",
	"cache_total_steps",
	"cache_hit_ratio",
	"exit_code",
}

// WriteCsv renders records as one flat CSV table, one row per run.
func WriteCsv(w io.Writer, recs []*results.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, rec := range recs {
		row := []string{
			rec.Tool,
			rec.Service,
			rec.DockerfileType,
			rec.CacheScenario,
			strconv.Itoa(rec.RunNumber),
			rec.Timestamp,
			rec.CiSystem,
			formatFloat(rec.Performance.BuildDurationSec),
			formatFloat(rec.Performance.CpuPercent),
			formatFloat(rec.Performance.CpuUserSec),
			formatFloat(rec.Performance.CpuSystemSec),
			formatFloat(rec.Performance.MemoryPeakMb),
			rec.Performance.ImageSize,
			strconv.FormatInt(rec.Performance.ImageSizeBytes, 10),
			strconv.Itoa(rec.Performance.CacheHits),
			strconv.Itoa(rec.Performance.CacheTotalSteps),
			formatFloat(rec.Performance.CacheHitRatio),
			strconv.Itoa(rec.ExitCode),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
