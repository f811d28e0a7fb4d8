package results

import (
	"fmt"
	"strings"
	"time"
)

// Identity names one benchmark run. It is supplied by the caller, never
// inferred, and determines the result file name.
type Identity struct {
	Tool           string
	Service        string
	DockerfileType string
	CacheScenario  string
	RunNumber      int
}

// Validate rejects identities that are incomplete or cannot form a safe
// file name.
func (id Identity) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"tool", id.Tool},
		{"service", id.Service},
		{"dockerfile_type", id.DockerfileType},
		{"cache_scenario", id.CacheScenario},
	}
	for _, f := range fields {
		if f.value == "" {
			return fmt.Errorf("identity field %s is empty", f.name)
		}
		if strings.ContainsAny(f.value, "/\\ \t\n") {
			return fmt.Errorf("identity field %s contains path separators or whitespace: %q", f.name, f.value)
		}
	}
	if id.RunNumber < 1 {
		return fmt.Errorf("run number must be positive, got %d", id.RunNumber)
	}
	return nil
}

// FileName returns the deterministic result file name for this identity,
// so a re-run with the same identity replaces the earlier record.
func (id Identity) FileName() string {
	return fmt.Sprintf("%s_%s_%s_%s_run%d.json",
		id.Tool, id.Service, id.DockerfileType, id.CacheScenario, id.RunNumber)
}

// Performance nests every measured figure of one run. Zeros mean
// "unmeasured" when the precision backend was unavailable; the image size
// carries an "N/A" sentinel when no runtime could report it.
type Performance struct {
	BuildDurationSec float64 `json:"build_duration_seconds"`
	CpuPercent       float64 `json:"cpu_percent"`
	CpuUserSec       float64 `json:"cpu_user_seconds"`
	CpuSystemSec     float64 `json:"cpu_system_seconds"`
	MemoryPeakMb     float64 `json:"memory_peak_mb"`
	ImageSize        string  `json:"image_size"`
	ImageSizeBytes   int64   `json:"image_size_bytes"`
	CacheHits        int     `json:"cache_hits"`
	CacheTotalSteps  int     `json:"cache_total_steps"`
	CacheHitRatio    float64 `json:"cache_hit_ratio"`
}

// Record is the persisted result document, one file per run. It is
// constructed once, written once and immutable thereafter.
type Record struct {
	Tool           string      `json:"tool"`
	Service        string      `json:"service"`
	DockerfileType string      `json:"dockerfile_type"`
	CacheScenario  string      `json:"cache_scenario"`
	RunNumber      int         `json:"run_number"`
	Timestamp      string      `json:"timestamp"`
	CiSystem       string      `json:"ci_system"`
	ExitCode       int         `json:"exit_code"`
	Performance    Performance `json:"performance"`
}

// NewRecord stamps a record for the given identity at the current time.
func NewRecord(id Identity, ciSystem string, exitCode int, perf Performance) *Record {
	return &Record{
		Tool:           id.Tool,
		Service:        id.Service,
		DockerfileType: id.DockerfileType,
		CacheScenario:  id.CacheScenario,
		RunNumber:      id.RunNumber,
		Timestamp:      time.Now().Format(time.RFC3339),
		CiSystem:       ciSystem,
		ExitCode:       exitCode,
		Performance:    perf,
	}
}

// Identity reconstructs the run identity of a loaded record.
func (r *Record) Identity() Identity {
	return Identity{
		Tool:           r.Tool,
		Service:        r.Service,
		DockerfileType: r.DockerfileType,
		CacheScenario:  r.CacheScenario,
		RunNumber:      r.RunNumber,
	}
}
