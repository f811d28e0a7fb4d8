package results_test

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/skskillls/thesis-benchmark/internal/results"
	"github.com/stretchr/testify/require"
)

func TestWriteRecord(t *testing.T) {
	dir := t.TempDir()
	w, err := results.NewWriter(dir)
	require.NoError(t, err)

	rec := results.NewRecord(validIdentity(), "local", 0, results.Performance{
		BuildDurationSec: 12.48,
		CpuPercent:       96,
		MemoryPeakMb:     210,
		ImageSize:        "126 MB",
		ImageSizeBytes:   125829120,
		CacheHits:        3,
		CacheTotalSteps:  10,
		CacheHitRatio:    0.3,
	})

	path, err := w.Write(rec)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "docker_svc1_multi-stage_warm_run1.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded results.Record
	require.NoError(t, json.Unmarshal(data, &loaded))
	require.Equal(t, *rec, loaded)
}

func TestWriteRecordFieldNames(t *testing.T) {
	dir := t.TempDir()
	w, err := results.NewWriter(dir)
	require.NoError(t, err)

	path, err := w.Write(results.NewRecord(validIdentity(), "local", 1, results.Performance{
		ImageSize: "N/A",
	}))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"tool", "service", "dockerfile_type", "cache_scenario",
		"run_number", "timestamp", "ci_system", "exit_code", "performance"} {
		require.Contains(t, raw, key)
	}

	perf, ok := raw["performance"].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"build_duration_seconds", "cpu_percent", "cpu_user_seconds",
		"cpu_system_seconds", "memory_peak_mb", "image_size", "image_size_bytes",
		"cache_hits", "cache_total_steps", "cache_hit_ratio"} {
		require.Contains(t, perf, key)
	}
	require.Equal(t, "N/A", perf["image_size"])
	require.Equal(t, float64(1), raw["exit_code"])
}

func TestWriteOverwritesSameIdentity(t *testing.T) {
	dir := t.TempDir()
	w, err := results.NewWriter(dir)
	require.NoError(t, err)

	_, err = w.Write(results.NewRecord(validIdentity(), "local", 0, results.Performance{}))
	require.NoError(t, err)
	path, err := w.Write(results.NewRecord(validIdentity(), "local", 1, results.Performance{}))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var loaded results.Record
	require.NoError(t, json.Unmarshal(data, &loaded))
	require.Equal(t, 1, loaded.ExitCode)
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := results.NewWriter(dir)
	require.NoError(t, err)

	_, err = w.Write(results.NewRecord(validIdentity(), "local", 0, results.Performance{}))
	require.NoError(t, err)

	leftovers, err := filepath.Glob(filepath.Join(dir, ".result-*"))
	require.NoError(t, err)
	require.Empty(t, leftovers)
}

func TestWriteBuildLog(t *testing.T) {
	dir := t.TempDir()
	w, err := results.NewWriter(dir)
	require.NoError(t, err)

	logText := []byte("#1 [1/2] FROM alpine\n#2 CACHED\n")
	path, err := w.WriteBuildLog(validIdentity(), logText)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "docker_svc1_multi-stage_warm_run1.log.zst"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	dec, err := zstd.NewReader(f)
	require.NoError(t, err)
	defer dec.Close()

	decoded, err := io.ReadAll(dec)
	require.NoError(t, err)
	require.Equal(t, logText, decoded)
}

func TestNewWriterRejectsFilePath(t *testing.T) {
	dir := t.TempDir()
	occupied := filepath.Join(dir, "results")
	require.NoError(t, os.WriteFile(occupied, []byte("x"), 0644))

	_, err := results.NewWriter(occupied)

	require.Error(t, err)
}

func TestNewWriterCreatesNestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "results")

	w, err := results.NewWriter(dir)
	require.NoError(t, err)
	require.Equal(t, dir, w.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}
