package aggregate_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/skskillls/thesis-benchmark/internal/aggregate"
	"github.com/skskillls/thesis-benchmark/internal/results"
	"github.com/stretchr/testify/require"
)

func record(tool, service, scenario string, run int, perf results.Performance) *results.Record {
	return results.NewRecord(results.Identity{
		Tool:           tool,
		Service:        service,
		DockerfileType: "multi-stage",
		CacheScenario:  scenario,
		RunNumber:      run,
	}, "local", 0, perf)
}

func seedDir(t *testing.T, recs ...*results.Record) string {
	t.Helper()
	dir := t.TempDir()
	w, err := results.NewWriter(dir)
	require.NoError(t, err)
	for _, rec := range recs {
		_, err := w.Write(rec)
		require.NoError(t, err)
	}
	return dir
}

func TestLoadDir(t *testing.T) {
	dir := seedDir(t,
		record("docker", "svc1", "warm", 1, results.Performance{BuildDurationSec: 12.5}),
		record("buildah", "svc1", "warm", 1, results.Performance{BuildDurationSec: 20.1}),
	)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "svc1_trivy_report.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("scratch"), 0644))

	recs, err := aggregate.LoadDir(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	require.Equal(t, "buildah", recs[0].Tool)
	require.Equal(t, "docker", recs[1].Tool)
}

func TestLoadDirSkipsForeignPathSegments(t *testing.T) {
	// The results dir's own location must not trigger the skip, only
	// paths below it.
	dir := filepath.Join(t.TempDir(), "security-lab", "results")
	w, err := results.NewWriter(dir)
	require.NoError(t, err)
	_, err = w.Write(record("docker", "svc1", "warm", 1, results.Performance{}))
	require.NoError(t, err)

	sub, err := results.NewWriter(filepath.Join(dir, "security"))
	require.NoError(t, err)
	_, err = sub.Write(record("docker", "svc1", "warm", 2, results.Performance{}))
	require.NoError(t, err)

	nested, err := results.NewWriter(filepath.Join(dir, "nightly"))
	require.NoError(t, err)
	_, err = nested.Write(record("buildah", "svc1", "warm", 1, results.Performance{}))
	require.NoError(t, err)

	recs, err := aggregate.LoadDir(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	require.Equal(t, "buildah", recs[0].Tool)
	require.Equal(t, "docker", recs[1].Tool)
	require.Equal(t, 1, recs[1].RunNumber)
}

func TestLoadDirSortsByRunNumber(t *testing.T) {
	dir := seedDir(t,
		record("docker", "svc1", "warm", 3, results.Performance{}),
		record("docker", "svc1", "warm", 1, results.Performance{}),
		record("docker", "svc1", "warm", 2, results.Performance{}),
	)

	recs, err := aggregate.LoadDir(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, recs, 3)
	for i, rec := range recs {
		require.Equal(t, i+1, rec.RunNumber)
	}
}

func TestLoadDirMissingDir(t *testing.T) {
	_, err := aggregate.LoadDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestWriteCsv(t *testing.T) {
	rec := record("docker", "svc1", "warm", 1, results.Performance{
		BuildDurationSec: 12.48,
		CpuPercent:       96,
		CpuUserSec:       10.5,
		CpuSystemSec:     1.75,
		MemoryPeakMb:     210,
		ImageSize:        "126 MB",
		ImageSizeBytes:   125829120,
		CacheHits:        3,
		CacheTotalSteps:  10,
		CacheHitRatio:    0.3,
	})

	var buf bytes.Buffer
	require.NoError(t, aggregate.WriteCsv(&buf, []*results.Record{rec}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Equal(t,
		"tool,service,dockerfile_type,cache_scenario,run_number,timestamp,ci_system,"+
			"build_duration_seconds,cpu_percent,cpu_user_seconds,cpu_system_seconds,"+
			"memory_peak_mb,image_size,image_size_bytes,cache_hits,cache_total_steps,"+
			"cache_hit_ratio,exit_code",
		lines[0])
	require.Equal(t,
		"docker,svc1,multi-stage,warm,1,"+rec.Timestamp+",local,"+
			"12.48,96,10.5,1.75,210,126 MB,125829120,3,10,0.3,0",
		lines[1])
}

func TestSummarizeSkipsZeroReadings(t *testing.T) {
	recs := []*results.Record{
		record("docker", "svc1", "warm", 1, results.Performance{
			BuildDurationSec: 10,
			CpuPercent:       50,
			ImageSizeBytes:   100,
		}),
		record("docker", "svc1", "warm", 2, results.Performance{
			CpuPercent: 150,
		}),
	}

	means := aggregate.Summarize(recs)

	require.Len(t, means, 1)
	require.Equal(t, 2, means[0].Runs)
	require.Equal(t, 10.0, means[0].MeanDurationSec)
	require.Equal(t, 100.0, means[0].MeanCpuPercent)
	require.Equal(t, int64(100), means[0].MeanImageBytes)
	require.Zero(t, means[0].MeanMemoryMb)
}

func TestSummarizeGroupsByConfiguration(t *testing.T) {
	recs := []*results.Record{
		record("docker", "svc1", "warm", 1, results.Performance{BuildDurationSec: 10}),
		record("docker", "svc1", "warm", 2, results.Performance{BuildDurationSec: 20}),
		record("docker", "svc1", "cold", 1, results.Performance{BuildDurationSec: 60}),
	}

	means := aggregate.Summarize(recs)

	require.Len(t, means, 2)
	require.Equal(t, "warm", means[0].CacheScenario)
	require.Equal(t, 15.0, means[0].MeanDurationSec)
	require.Equal(t, "cold", means[1].CacheScenario)
	require.Equal(t, 60.0, means[1].MeanDurationSec)
}

func TestRenderSummary(t *testing.T) {
	recs := []*results.Record{
		record("docker", "svc1", "warm", 1, results.Performance{
			BuildDurationSec: 12.5,
			ImageSizeBytes:   125829120,
		}),
	}

	var buf bytes.Buffer
	aggregate.RenderSummary(&buf, recs)

	out := buf.String()
	require.Contains(t, out, "TOOL")
	require.Contains(t, out, "docker")
	require.Contains(t, out, "svc1")
	require.Contains(t, out, "126 MB")
	require.Contains(t, out, "ci systems: local")
	require.Contains(t, out, "scenarios:  warm")
}
